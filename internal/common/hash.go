package common

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CrateHash16 returns a 16-character lowercase hex digest of crateID, stable
// across runs, used to name the on-disk raw-metadata file for a crate
// without leaking its id (which may be a URL or filesystem path) into a
// filename.
func CrateHash16(crateID string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(crateID))
}
