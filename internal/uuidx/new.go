// Package uuidx generates time-ordered identifiers for stream sessions.
package uuidx

import "github.com/google/uuid"

// New returns a version 7 UUID. It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New().String().
func NewString() string {
	return New().String()
}
