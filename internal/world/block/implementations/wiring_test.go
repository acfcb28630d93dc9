package implementations

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentWorld(t *testing.T) (*world.World, *Content) {
	t.Helper()
	c, err := NewContent()
	require.NoError(t, err)
	w := world.New(c.Registry, c.States, world.Options{Provider: world.NewMemoryProvider(nil, false)})
	w.LoadChunk(world.ChunkCoord{}, true)
	return w, c
}

func powerAt(w *world.World, c *Content, x, y, z int) int {
	v := w.GetBlockState(x, y, z, c.Channels.ElectricPower)
	if v == nil {
		return 0
	}
	return v.Ordinal()
}

func TestCableLinePropagatesAndDecays(t *testing.T) {
	w, c := newContentWorld(t)
	placer := world.NewPlayer("builder", mgl64.Vec3{0, 5, 0})

	require.True(t, w.PlaceBlock(0, 1, 0, c.Blocks.PowerSource, block.SideTop, placer))
	for x := 1; x <= 3; x++ {
		require.True(t, w.PlaceBlock(x, 1, 0, c.Blocks.Cable, block.SideTop, placer))
	}

	assert.Equal(t, 15, powerAt(w, c, 0, 1, 0))
	assert.Equal(t, 14, powerAt(w, c, 1, 1, 0))
	assert.Equal(t, 13, powerAt(w, c, 2, 1, 0))
	assert.Equal(t, 12, powerAt(w, c, 3, 1, 0))
	assert.Equal(t, "ew", w.GetBlockState(1, 1, 0, c.Channels.Connexions).Name())
	assert.Equal(t, "w", w.GetBlockState(3, 1, 0, c.Channels.Connexions).Name())

	// Источник убран: его состояние сброшено, сигнал затухает
	w.SetBlock(0, 1, 0, nil)
	for x := 0; x <= 3; x++ {
		assert.Equal(t, 0, powerAt(w, c, x, 1, 0), "x=%d", x)
	}
	assert.Equal(t, "e", w.GetBlockState(1, 1, 0, c.Channels.Connexions).Name())
}

func TestLogPlacedThroughWorld(t *testing.T) {
	w, c := newContentWorld(t)

	require.True(t, w.PlaceBlock(4, 4, 4, c.Blocks.Log, block.SideEast, nil))
	assert.Equal(t, "east", w.GetBlockState(4, 4, 4, c.Channels.Orientation).Name())

	w.ClearStates(4, 4, 4)
	assert.Nil(t, w.GetBlockState(4, 4, 4, c.Channels.Orientation))
}

func TestRoseFallsWhenGroundRemoved(t *testing.T) {
	w, c := newContentWorld(t)

	w.SetBlock(2, 0, 2, c.Blocks.Grass)
	w.SetBlock(2, 1, 2, c.Blocks.Rose)
	require.Same(t, c.Blocks.Rose, w.GetBlockAt(2, 1, 2))

	w.SetBlock(2, 0, 2, nil)
	assert.True(t, w.GetBlockAt(2, 1, 2).IsAir())

	// Без опоры цветок не ставится
	w.SetBlock(6, 6, 6, c.Blocks.Rose)
	assert.True(t, w.GetBlockAt(6, 6, 6).IsAir())
}
