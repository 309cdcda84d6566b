package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "horas_session"

// maxTokenBytes keeps the cookie, name and attributes included, under the
// 4096 bytes browsers accept.
const maxTokenBytes = 3800

var (
	ErrNoSession = errors.New("no session")
	ErrTooLarge  = errors.New("session too large for a cookie")
)

type claims struct {
	State
	jwt.RegisteredClaims
}

// Codec signs session state into an HS256 token carried by a cookie.
type Codec struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration, secure bool) *Codec {
	return &Codec{key: secret, ttl: ttl, secure: secure, now: time.Now}
}

func (c *Codec) Encode(s State) (string, error) {
	now := c.now()
	cl := claims{
		State: s,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (c *Codec) Decode(token string) (State, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return State{}, fmt.Errorf("verify session: %w", err)
	}
	return cl.State, nil
}

// Read returns the state carried by the request. A missing, expired or
// tampered cookie yields Default and an error describing why.
func (c *Codec) Read(r *http.Request) (State, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Default(), ErrNoSession
	}
	s, err := c.Decode(cookie.Value)
	if err != nil {
		return Default(), err
	}
	return s, nil
}

// Write stores s in the response cookie. A state whose token would not fit
// in a cookie is refused with ErrTooLarge and nothing is written.
func (c *Codec) Write(w http.ResponseWriter, s State) error {
	token, err := c.Encode(s)
	if err != nil {
		return err
	}
	if len(token) > maxTokenBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(token))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
