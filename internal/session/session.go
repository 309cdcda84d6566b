// Package session holds the per-user dashboard state between renders: the
// login flag and the current filter selections.
package session

import (
	"slices"

	"horas/internal/analytics"
)

// State is everything remembered about a browser session.
type State struct {
	Authenticated bool                 `json:"auth"`
	Username      string               `json:"user,omitempty"`
	Filters       analytics.FilterSpec `json:"filters"`
}

// Default is a logged-out session with unrestricted filters.
func Default() State {
	return State{Filters: analytics.DefaultFilterSpec()}
}

// Login returns s authenticated as username.
func (s State) Login(username string) State {
	s.Authenticated = true
	s.Username = username
	return s
}

// Reset returns s with the filters back to their defaults. The login is kept.
func (s State) Reset() State {
	s.Filters = analytics.DefaultFilterSpec()
	return s
}

// WithFilters returns s with f as the current selections.
func (s State) WithFilters(f analytics.FilterSpec) State {
	f.Clients = slices.Clone(f.Clients)
	s.Filters = f
	return s
}
