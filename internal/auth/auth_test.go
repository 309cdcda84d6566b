package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticAuthenticator(t *testing.T) {
	a := NewStatic("admin", "s3cret")
	ctx := context.Background()

	assert.NoError(t, a.Authenticate(ctx, "admin", "s3cret"))
	assert.ErrorIs(t, a.Authenticate(ctx, "admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "other", "s3cret"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "", ""), ErrInvalidCredentials)
}

func TestBcryptAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewBcrypt("admin", string(hash))
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, a.Authenticate(ctx, "admin", "s3cret"))
	assert.ErrorIs(t, a.Authenticate(ctx, "admin", "nope"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "root", "s3cret"), ErrInvalidCredentials)

	_, err = NewBcrypt("admin", "plain-text")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	a, err := New("admin", "pw", "")
	require.NoError(t, err)
	assert.IsType(t, &StaticAuthenticator{}, a)

	hash, err := HashPassword("pw")
	require.NoError(t, err)
	a, err = New("admin", "ignored", hash)
	require.NoError(t, err)
	assert.IsType(t, &BcryptAuthenticator{}, a)
	assert.NoError(t, a.Authenticate(context.Background(), "admin", "pw"))

	_, err = New("admin", "", "")
	assert.Error(t, err)
}
