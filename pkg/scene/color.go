package scene

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/storyreel/storyreel/pkg/models"
)

// RandomColor returns a random, saturated display colour as a hex string.
func RandomColor(rnd *rand.Rand) string {
	c := colorful.Hsv(
		rnd.Float64()*360,
		0.55+rnd.Float64()*0.35,
		0.7+rnd.Float64()*0.25,
	)
	return c.Clamped().Hex()
}

// NormalizeColor validates a hex colour, returning it in lower-case
// #rrggbb form.
func NormalizeColor(s string) (string, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c.Hex(), nil
}

// EnsureColor gives s a random display colour if it has none.
func EnsureColor(s *models.Scene, rnd *rand.Rand) {
	if s.Color == "" {
		s.Color = RandomColor(rnd)
	}
}
