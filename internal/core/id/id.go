// Package id provides UUIDv7 generation for ledger rows and document references.
// UUIDv7 is time-ordered, so freshly appended movements cluster at the end of
// the primary key index.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used for movement ids and document source ids.
type ID = uuid.UUID

// New generates a new UUIDv7 (RFC 9562).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails when the entropy source does; fall back to V4.
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
