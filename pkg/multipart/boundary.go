package multipart

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// boundaryPrefix is the 27 dash run every boundary starts with.
var boundaryPrefix = strings.Repeat("-", 27)

// BoundaryLen is the length of a generated boundary: 27 dashes and 16 hex digits.
const BoundaryLen = 27 + 16

// RandomSource supplies the randomness for boundary generation.
// *rand.Rand from math/rand/v2 satisfies this interface.
type RandomSource interface {
	Uint32() uint32
}

type globalRandom struct{}

func (globalRandom) Uint32() uint32 { return rand.Uint32() }

// DefaultRandom returns a source backed by the auto-seeded math/rand/v2
// generator. It is not cryptographically strong.
func DefaultRandom() RandomSource {
	return globalRandom{}
}

// NewBoundary generates a boundary token from two 32-bit draws, rendered as
// uppercase hex after the dash prefix.
func NewBoundary(src RandomSource) string {
	return fmt.Sprintf("%s%08X%08X", boundaryPrefix, src.Uint32(), src.Uint32())
}

// ContentType returns the multipart media type for boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}
