package license

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signature fingerprints one render. It is unique per path, entity and time
// and carries no authenticity guarantee.
func Signature(skillPath, entity string, at time.Time) string {
	content := fmt.Sprintf("%s:%s:%s", skillPath, entity, at.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Marker returns MarkerPrefix followed by a random (version 4) UUID drawn from
// entropy, written as 32 upper-case hex digits without hyphens. The version
// and variant bits are fixed, so digit 13 is always 4 and digit 17 one of
// 8, 9, A or B.
func Marker(entropy io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to read marker entropy: %w", err)
	}
	return MarkerPrefix + strings.ToUpper(hex.EncodeToString(id[:])), nil
}
