package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideTranslationAndOpposite(t *testing.T) {
	for _, s := range Sides {
		dx, dy, dz := s.Translation()
		ox, oy, oz := s.Opposite().Translation()
		assert.Equal(t, [3]int{-dx, -dy, -dz}, [3]int{ox, oy, oz}, "грань %s", s)
		assert.Equal(t, 1, dx*dx+dy*dy+dz*dz)
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range Sides {
		got, ok := ParseSide(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSide("up")
	assert.False(t, ok)
}
