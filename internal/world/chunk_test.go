package world

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldToLocalRange(t *testing.T) {
	for v := -1000; v <= 1000; v++ {
		local := WorldToLocal(v)
		require.GreaterOrEqual(t, local, 0, "v=%d", v)
		require.Less(t, local, ChunkSize, "v=%d", v)
		require.Equal(t, v, WorldToChunk(v)*ChunkSize+local, "v=%d", v)
	}

	assert.Equal(t, 15, WorldToLocal(-1))
	assert.Equal(t, -1, WorldToChunk(-1))
	assert.Equal(t, 0, WorldToLocal(-16))
	assert.Equal(t, -1, WorldToChunk(-16))
	assert.Equal(t, ChunkCoord{X: -1, Y: 0, Z: 2}, ChunkCoordOf(-5, 3, 40))
}

func TestChunkStartsEmpty(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(0, 0, 0)

	assert.True(t, c.GetChunkBlock(3, 4, 5).IsAir())
	assert.Equal(t, float32(1), c.GetChunkLightValue(3, 4, 5))
	assert.Nil(t, c.GetChunkBlockState(3, 4, 5, f.orientation))
	assert.Equal(t, -1, c.Highest(3, 5))
	_, ok := c.HighestBlock(3, 5)
	assert.False(t, ok)
}

func TestChunkSetGetRoundTrip(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(-1, 2, 0)

	// Мировые координаты внутри чанка (-1,2,0)
	wx, wy, wz := -3, 37, 9
	c.SetBlock(wx, wy, wz, f.stone)
	assert.Same(t, f.stone, c.GetBlock(wx, wy, wz))
	assert.Same(t, f.stone, c.GetChunkBlock(13, 5, 9))
	assert.Same(t, f.stone, f.w.GetBlockAt(wx, wy, wz))

	c.SetBlock(wx, wy, wz, nil)
	assert.True(t, c.GetBlock(wx, wy, wz).IsAir(), "nil записывается как воздух")

	c.SetLightValue(wx, wy, wz, 0.25)
	assert.Equal(t, float32(0.25), c.GetLightValue(wx, wy, wz))
	c.SetChunkLightValue(0, 0, 0, 7)
	assert.Equal(t, float32(1), c.GetChunkLightValue(0, 0, 0))
	c.SetChunkLightValue(0, 0, 0, -2)
	assert.Equal(t, float32(0), c.GetChunkLightValue(0, 0, 0))

	north := f.w.States().GetValue(f.orientation, "north")
	c.SetBlockState(wx, wy, wz, f.orientation, north)
	assert.Same(t, north, c.GetBlockState(wx, wy, wz, f.orientation))
	assert.Same(t, north, c.GetChunkBlockState(13, 5, 9, f.orientation))
}

func TestChunkOrientationSetGetClear(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(0, 0, 0)

	up := f.w.States().GetValue(f.orientation, "up")
	east := f.w.States().GetValue(f.orientation, "east")

	c.SetChunkBlockState(1, 2, 3, f.orientation, up)
	c.SetChunkBlockState(1, 2, 3, f.power, f.powerValue(4))
	assert.Same(t, up, c.GetChunkBlockState(1, 2, 3, f.orientation))

	// Одно значение на канал: повторная запись заменяет
	c.SetChunkBlockState(1, 2, 3, f.orientation, east)
	assert.Same(t, east, c.GetChunkBlockState(1, 2, 3, f.orientation))
	assert.Len(t, c.ChunkBlockStates(1, 2, 3), 2)

	// Копия не связана с чанком
	states := c.ChunkBlockStates(1, 2, 3)
	delete(states, f.orientation)
	assert.Same(t, east, c.GetChunkBlockState(1, 2, 3, f.orientation))

	c.SetChunkBlockState(1, 2, 3, f.power, nil)
	assert.Nil(t, c.GetChunkBlockState(1, 2, 3, f.power))

	c.ClearChunkState(1, 2, 3)
	assert.Nil(t, c.GetChunkBlockState(1, 2, 3, f.orientation))
	assert.Empty(t, c.ChunkBlockStates(1, 2, 3))
}

func TestChunkDirtyPropagationDoesNotCreateChunks(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(0, 0, 0)
	east := f.chunk(1, 0, 0)
	above := f.chunk(0, 1, 0)
	far := f.chunk(5, 5, 5)

	for _, ch := range []*Chunk{c, east, above, far} {
		ch.CleanUpDirtiness()
		require.False(t, ch.IsDirty())
	}

	c.SetChunkBlock(15, 0, 0, f.stone)

	assert.True(t, c.IsDirty())
	assert.True(t, east.IsDirty())
	assert.True(t, above.IsDirty())
	assert.False(t, far.IsDirty())
	assert.False(t, f.w.DoesChunkExist(ChunkCoord{X: -1, Y: 0, Z: 0}), "соседи не создаются")
	assert.False(t, f.w.DoesChunkExist(ChunkCoord{X: 0, Y: 0, Z: 1}))
	assert.Len(t, f.w.Provider().Chunks(), 4)

	for _, mutate := range []func(){
		func() { c.SetChunkLightValue(0, 0, 0, 0.5) },
		func() { c.SetChunkBlockState(0, 0, 0, f.orientation, f.w.States().GetValue(f.orientation, "up")) },
		func() { c.ClearChunkState(0, 0, 0) },
	} {
		c.CleanUpDirtiness()
		east.CleanUpDirtiness()
		mutate()
		assert.True(t, c.IsDirty())
		assert.True(t, east.IsDirty())
	}
}

func TestChunkHighestCache(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(0, 0, 0)

	c.SetChunkBlock(4, 3, 6, f.stone)
	c.SetChunkBlock(4, 7, 6, f.stone)
	c.SetChunkBlock(4, 10, 6, f.glass)
	assert.Equal(t, 10, c.Highest(4, 6))

	top, ok := c.HighestBlock(4, 6)
	require.True(t, ok)
	assert.Same(t, f.glass, top)

	// Запись ниже верхнего блока и воздух выше него не меняют кэш
	c.SetChunkBlock(4, 1, 6, f.stone)
	c.SetChunkBlock(4, 14, 6, nil)
	assert.Equal(t, 10, c.Highest(4, 6))

	expected := []int{7, 3, 1, -1}
	for i, y := range []int{10, 7, 3, 1} {
		c.SetChunkBlock(4, y, 6, nil)
		assert.Equal(t, expected[i], c.Highest(4, 6), "после удаления y=%d", y)
	}

	// Соседняя колонка не затронута
	assert.Equal(t, -1, c.Highest(5, 6))
}

func TestChunkFill(t *testing.T) {
	f := newFixture(t, Options{})
	c := f.chunk(0, 0, 0)

	c.Fill(f.stone)
	assert.Same(t, f.stone, c.GetChunkBlock(0, 0, 0))
	assert.Same(t, f.stone, c.GetChunkBlock(15, 15, 15))
	assert.Equal(t, 15, c.Highest(9, 9))

	c.Fill(nil)
	assert.True(t, c.GetChunkBlock(8, 8, 8).IsAir())
	assert.Equal(t, -1, c.Highest(9, 9))
}

func TestChunkUpdateTicksUpToSurface(t *testing.T) {
	gen := &flatGenerator{seed: 1, surface: 20}
	f := newFixture(t, Options{Generator: gen})
	c := f.chunk(0, 1, 0) // мировые y 16..31

	for y := 0; y < ChunkSize; y++ {
		c.SetChunkBlock(2, y, 3, f.rec)
	}
	f.resetEvents()

	c.Update()

	var ticked []int
	for _, e := range f.events {
		require.Equal(t, "tick", e.kind)
		assert.Equal(t, 2, e.x)
		assert.Equal(t, 3, e.z)
		ticked = append(ticked, e.y)
	}
	// Поверхность 20 и один блок над ней
	assert.Equal(t, []int{16, 17, 18, 19, 20, 21}, ticked)
}

func TestChunkUpdateBelowSurfaceChunkTicksEverything(t *testing.T) {
	gen := &flatGenerator{surface: 100}
	f := newFixture(t, Options{Generator: gen})
	c := f.chunk(0, 0, 0)
	c.Fill(f.rec)
	f.resetEvents()

	c.Update()
	assert.Len(t, f.events, ChunkVolume)
}

func TestChunkRestoreRebuildsHighest(t *testing.T) {
	f := newFixture(t, Options{})
	c := NewChunk(f.w, ChunkCoord{X: 0, Y: 0, Z: 0})

	up := f.w.States().GetValue(f.orientation, "up")
	c.RestoreVoxel(1, 9, 1, f.stone, 0.5, nil)
	c.RestoreVoxel(1, 4, 1, f.glass, 1, []*block.StateValue{up, nil})
	assert.False(t, c.IsDirty())

	c.FinishRestore()
	assert.True(t, c.IsDirty())
	assert.Equal(t, 9, c.Highest(1, 1))
	assert.Equal(t, float32(0.5), c.GetChunkLightValue(1, 9, 1))
	assert.Same(t, up, c.GetChunkBlockState(1, 4, 1, f.orientation))
}
