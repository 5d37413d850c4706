// Package idgen generates opaque ids for manually created entities. Auto
// budget item ids are deterministic functions of other ids with fixed
// "auto-" prefixes; UUIDs can never collide with them.
package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// UUID generates random UUID ids.
type UUID struct{}

// NewID returns a fresh id.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates predictable ids for tests: prefix-1, prefix-2, ...
type Sequence struct {
	Prefix string
	n      int
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return prefix + "-" + strconv.Itoa(s.n)
}
