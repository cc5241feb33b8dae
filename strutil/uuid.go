package strutil

import (
	"fmt"

	"github.com/google/uuid"
)

// NewV4 returns a random version-4 UUID (6 bits of version+variant
// forced per RFC 4122), delegating to the ecosystem's uuid package
// rather than hand-rolling an RFC 4122 generator.
func NewV4() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a 36-char 8-4-4-4-12 hex UUID. Input of any other
// length is rejected; hex digits of either case are accepted.
func ParseUUID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.UUID{}, fmt.Errorf("invalid UUID length: %d", len(s))
	}
	return uuid.Parse(s)
}
