package http

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"horas/internal/analytics"
	"horas/internal/core"
)

// Query parameters of the filter form and the JSON API.
const (
	paramFrom      = "from"
	paramTo        = "to"
	paramArea      = "area"
	paramPerformer = "performer"
	paramHourType  = "hour_type"
	paramClient    = "client"
	// paramClientSet marks a submission whose client list is complete, so
	// that selecting no client clears the restriction.
	paramClientSet = "client_set"
)

// maxClients caps the client selection so the session cookie stays small.
const maxClients = 50

var errTooManyClients = fmt.Errorf("more than %d clients selected", maxClients)

// FilterParamError reports a filter parameter that could not be parsed.
type FilterParamError struct {
	Param string
	Value string
	Err   error
}

func (e *FilterParamError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *FilterParamError) Unwrap() error { return e.Err }

// ParseFilterSpec applies the selections present in q on top of base.
// Absent parameters keep base's value; an empty value lifts the
// restriction. Dates are YYYY-MM-DD or YYYY-MM; a month stands for its
// first day in "from" and its last day in "to". Changing the area without
// naming a performer resets the performer.
func ParseFilterSpec(q url.Values, base analytics.FilterSpec) (analytics.FilterSpec, error) {
	spec := base
	spec.Clients = slices.Clone(base.Clients)

	if q.Has(paramFrom) {
		d, err := parseBound(q.Get(paramFrom), false)
		if err != nil {
			return base, &FilterParamError{Param: paramFrom, Value: q.Get(paramFrom), Err: err}
		}
		spec.Dates.From = d
	}
	if q.Has(paramTo) {
		d, err := parseBound(q.Get(paramTo), true)
		if err != nil {
			return base, &FilterParamError{Param: paramTo, Value: q.Get(paramTo), Err: err}
		}
		spec.Dates.To = d
	}
	if !spec.Dates.From.IsZero() && !spec.Dates.To.IsZero() && spec.Dates.To.Before(spec.Dates.From) {
		return base, &FilterParamError{Param: paramTo, Value: spec.Dates.To.String(), Err: fmt.Errorf("before %s", spec.Dates.From)}
	}

	if q.Has(paramArea) {
		area := selection(q.Get(paramArea))
		if area != spec.Area && !q.Has(paramPerformer) {
			spec.Performer = analytics.All
		}
		spec.Area = area
	}
	if q.Has(paramPerformer) {
		spec.Performer = selection(q.Get(paramPerformer))
	}
	if q.Has(paramHourType) {
		spec.HourType = selection(q.Get(paramHourType))
	}
	if q.Has(paramClient) || q.Has(paramClientSet) {
		spec.Clients = nil
		for _, c := range q[paramClient] {
			if c = sanitizeInput(c); c != "" && c != analytics.All && !slices.Contains(spec.Clients, c) {
				spec.Clients = append(spec.Clients, c)
			}
		}
		if len(spec.Clients) > maxClients {
			return base, &FilterParamError{Param: paramClient, Value: strconv.Itoa(len(spec.Clients)) + " clients", Err: errTooManyClients}
		}
	}
	return spec, nil
}

func selection(v string) string {
	if v = sanitizeInput(v); v == "" {
		return analytics.All
	}
	return v
}

func parseBound(v string, end bool) (core.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.Date{}, nil
	}
	if len(v) == len("2006-01") {
		d, err := core.ParseDate(v + "-01")
		if err != nil {
			return core.Date{}, err
		}
		if end {
			return d.MonthEnd(), nil
		}
		return d, nil
	}
	return core.ParseDate(v)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	if slices.Contains(methods, r.Method) {
		return nil
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}
