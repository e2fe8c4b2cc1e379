package domain

import (
	"errors"
	"time"
)

var ErrLocationNotFound = errors.New("location not found")
var ErrLocationExists = errors.New("location already exists")
var ErrInvalidHierarchy = errors.New("invalid location hierarchy")

// Location is one node in the administrative location hierarchy. Levels are
// 1-based from the top of the tree; a child must sit exactly one level below
// its parent.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Level     int       `json:"level"`
	ParentID  string    `json:"parent_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanContain reports whether child may be attached under l.
func (l *Location) CanContain(child *Location) bool {
	return child.Level == l.Level+1
}
