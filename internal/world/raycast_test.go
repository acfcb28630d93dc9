package world

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayCastHitsBlockBelow(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.w.SetBlock(0, 0, 0, f.stone)

	var out CollisionInfo
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 2.5, 0.5}, mgl64.Vec3{0, -1, 0}), &out, 5)

	require.Equal(t, CollisionBlock, out.Type)
	assert.Equal(t, 0.0, out.X)
	assert.Equal(t, 0.0, out.Y)
	assert.Equal(t, 0.0, out.Z)
	assert.Equal(t, block.SideTop, out.Side)
	// Верхняя грань на расстоянии 1.5 от глаз
	assert.InDelta(t, 1.5, out.Distance, RayStep)

	hit, ok := out.Block()
	require.True(t, ok)
	assert.Same(t, f.stone, hit)
}

func TestRayCastHitsWallFace(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.chunk(0, 0, -1)
	f.w.SetBlock(0, 0, -3, f.stone)

	var out CollisionInfo
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, -1}), &out, 10)

	require.Equal(t, CollisionBlock, out.Type)
	assert.Equal(t, 0, out.BlockPos().X)
	assert.Equal(t, -3, out.BlockPos().Z)
	assert.Equal(t, block.SideSouth, out.Side)
	assert.InDelta(t, 2.5, out.Distance, RayStep)
}

func TestRayCastFromPlayerEyes(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.chunk(0, 0, -1)

	// Взгляд игрока на уровне y=1.62, блок на высоте глаз
	f.w.SetBlock(0, 1, -2, f.stone)
	p := NewPlayer("eyes", mgl64.Vec3{0.5, 0, 0.5})
	f.w.Spawn(p)
	f.w.Update(0)

	var out CollisionInfo
	f.w.PerformRayCast(p, &out, 5)

	require.Equal(t, CollisionBlock, out.Type, "луч не должен попадать в самого отправителя")
	assert.Equal(t, 1, out.BlockPos().Y)
	assert.Equal(t, -2, out.BlockPos().Z)
	assert.InDelta(t, 1.5, out.Distance, RayStep)
}

func TestRayCastMiss(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.w.SetBlock(0, 0, 0, f.stone)

	var out CollisionInfo
	out.Type = CollisionBlock // результат перезаписывается
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 4.5, 0.5}, mgl64.Vec3{0, -1, 0}), &out, 2)
	assert.Equal(t, CollisionNone, out.Type)

	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 4.5, 0.5}, mgl64.Vec3{0, 1, 0}), &out, 10)
	assert.Equal(t, CollisionNone, out.Type)
}

func TestRayCastRespectsSelectionBox(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.w.SetBlock(3, 0, 0, f.half)
	f.w.SetBlock(6, 0, 0, f.stone)

	// Над половинкой луч проходит дальше
	var out CollisionInfo
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.75, 0.5}, mgl64.Vec3{1, 0, 0}), &out, 10)
	require.Equal(t, CollisionBlock, out.Type)
	assert.Equal(t, 6, out.BlockPos().X)
	assert.Equal(t, block.SideWest, out.Side)

	// Ниже середины попадает в половинку
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.25, 0.5}, mgl64.Vec3{1, 0, 0}), &out, 10)
	require.Equal(t, CollisionBlock, out.Type)
	assert.Equal(t, 3, out.BlockPos().X)
	assert.InDelta(t, 2.5, out.Distance, RayStep)
}

func TestRayCastHitsEntityBeforeBlock(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.chunk(0, 0, -1)
	f.w.SetBlock(0, 0, -5, f.stone)

	target := NewPlayer("target", mgl64.Vec3{0.5, 0, -1.5})
	f.w.Spawn(target)
	f.w.Update(0)

	var out CollisionInfo
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, -1}), &out, 10)

	require.Equal(t, CollisionEntity, out.Type)
	e, ok := out.Entity()
	require.True(t, ok)
	assert.Same(t, target, e)
	assert.Equal(t, -1.5, out.Z)
	// Передняя грань коллайдера на z=-1.2
	assert.InDelta(t, 1.7, out.Distance, RayStep)

	target.Kill()
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, -1}), &out, 10)
	assert.Equal(t, CollisionBlock, out.Type, "мёртвые сущности пропускаются")
}

func TestStruckSide(t *testing.T) {
	tests := []struct {
		diff mgl64.Vec3
		want block.Side
	}{
		{mgl64.Vec3{0.5, 0, 0}, block.SideWest},
		{mgl64.Vec3{-0.5, 0.1, 0}, block.SideEast},
		{mgl64.Vec3{0, 0.5, 0.2}, block.SideBottom},
		{mgl64.Vec3{0, -0.5, 0.2}, block.SideTop},
		{mgl64.Vec3{0.1, 0, 0.5}, block.SideNorth},
		{mgl64.Vec3{0.1, 0, -0.5}, block.SideSouth},
		{mgl64.Vec3{0.5, 0.5, 0}, block.SideBottom},
		{mgl64.Vec3{}, block.SideBottom},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, struckSide(tt.diff), "diff %v", tt.diff)
	}
}

func TestRayCastWallHidesEntityBehind(t *testing.T) {
	f := newFixture(t, Options{})
	f.chunk(0, 0, 0)
	f.chunk(0, 0, -1)
	f.w.SetBlock(0, 0, -2, f.stone)

	hidden := NewPlayer("hidden", mgl64.Vec3{0.5, 0, -4.5})
	f.w.Spawn(hidden)
	f.w.Update(0)

	var out CollisionInfo
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, -1}), &out, 10)

	// Луч останавливается на ближайшем попадании и до сущности не доходит
	require.Equal(t, CollisionBlock, out.Type)
	assert.Equal(t, -2, out.BlockPos().Z)
	assert.Equal(t, block.SideSouth, out.Side)
	assert.InDelta(t, 1.5, out.Distance, RayStep)

	f.w.SetBlock(0, 0, -2, f.w.Blocks().Air())
	f.w.PerformRayCast(NewProbe(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, -1}), &out, 10)
	require.Equal(t, CollisionEntity, out.Type)
	e, ok := out.Entity()
	require.True(t, ok)
	assert.Same(t, hidden, e)
}
