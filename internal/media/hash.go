package media

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const storedNameHexLen = 16

// StoredName derives the on-disk filename for a record id: the first 16 hex
// characters of SHA-256 over the id string, plus the variant's extension.
// The name is decoupled from both user input and payload content, so two
// uploads of identical bytes still land in distinct files.
func StoredName(id uuid.UUID, ext string) string {
	sum := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(sum[:])[:storedNameHexLen] + ext
}
