package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	assert.NoError(t, NewDate(2025, 1, 1).Validate())
	assert.ErrorIs(t, Date{}.Validate(), ErrMissingDate)
	assert.ErrorIs(t, TimeEntry{}.Validate(), ErrMissingDate)
	assert.NoError(t, PaymentEntry{Date: NewDate(2024, 2, 5)}.Validate())
}

func TestMonthEnd(t *testing.T) {
	cases := []struct {
		in, want Date
	}{
		{NewDate(2024, 1, 15), NewDate(2024, 1, 31)},
		{NewDate(2024, 2, 1), NewDate(2024, 2, 29)},
		{NewDate(2023, 2, 28), NewDate(2023, 2, 28)},
		{NewDate(2024, 12, 31), NewDate(2024, 12, 31)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.MonthEnd(), tc.in.String())
	}
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, NewDate(2024, 1, 1), NewDate(2024, 1, 31).MonthStart())
	assert.Equal(t, NewDate(2024, 2, 1), NewDate(2024, 2, 29).MonthStart())
	assert.Equal(t, "", Date{}.MonthStart().String())
}

func TestWeekEndingMonday(t *testing.T) {
	// 2024-01-15 is a Monday.
	monday := NewDate(2024, 1, 15)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, monday, monday.WeekEndingMonday())
	assert.Equal(t, NewDate(2024, 1, 22), NewDate(2024, 1, 16).WeekEndingMonday())
	assert.Equal(t, NewDate(2024, 1, 22), NewDate(2024, 1, 21).WeekEndingMonday())
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 3, 9))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-09"`), &d))
	assert.Equal(t, NewDate(2024, 3, 9), d)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestInvalidDateError(t *testing.T) {
	cause := errors.New("bad layout")
	err := error(&InvalidDateError{Dataset: "hours", Row: 3, Value: "32/13/2024", Err: cause})
	assert.Equal(t, `invalid date in hours row 3 ("32/13/2024"): bad layout`, err.Error())
	assert.ErrorIs(t, err, cause)

	var ide *InvalidDateError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 3, ide.Row)
}
