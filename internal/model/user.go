// Package model defines the domain types shared by the API client,
// the cache layer, and the screens.
package model

import (
	"strings"
	"time"
)

// User is the server-authoritative account record. The client holds a
// read-through copy owned by the session store.
type User struct {
	ID          string
	Email       string
	DisplayName string // empty when the server has no display name
	PhotoURL    string
	CreatedAt   time.Time
}

// Name returns the display name, falling back to the local part of the
// email address when no display name is set.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
