package common

import "github.com/google/uuid"

// NewCrateToken returns a sortable, time-ordered unique token suitable for
// local (directory/zip) crate ids. UUIDv7 embeds a millisecond Unix
// timestamp in its high bits, so lexicographic string order tracks creation
// order.
func NewCrateToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the runtime's random source is broken;
		// fall back to a random v4 rather than panic.
		return uuid.New().String()
	}
	return id.String()
}
