package scene

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storyreel/storyreel/pkg/models"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRandomColor(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Regexp(t, hexColor, RandomColor(rnd))
	}
}

func TestEnsureColor(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	s := models.Scene{Color: "#abcdef"}
	EnsureColor(&s, rnd)
	assert.Equal(t, "#abcdef", s.Color)

	s = models.Scene{}
	EnsureColor(&s, rnd)
	assert.Regexp(t, hexColor, s.Color)
}

func TestNormalizeColor(t *testing.T) {
	c, err := NormalizeColor("#ABCDEF")
	assert.NoError(t, err)
	assert.Equal(t, "#abcdef", c)

	_, err = NormalizeColor("red")
	assert.Error(t, err)
}
