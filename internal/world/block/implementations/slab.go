package implementations

import (
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// SlabBehavior полублок, занимающий нижнюю половину вокселя
type SlabBehavior struct {
	block.BaseBehavior
}

// SelectionBox нижняя половина вокселя
func (SlabBehavior) SelectionBox(api block.API, x, y, z int) (physics.AABB, bool) {
	return physics.PartialBlockBox(x, y, z, 0, 0, 0, 1, 0.5, 1), true
}

// IsSideOpaque закрыта только нижняя грань
func (SlabBehavior) IsSideOpaque(api block.API, x, y, z int, side block.Side) bool {
	return side == block.SideBottom
}

// NewSlab создаёт полублок
func NewSlab(name string) *block.Type {
	return &block.Type{
		Name:       name,
		Solid:      true,
		Renderable: true,
		Selectable: true,
		Behavior:   SlabBehavior{},
	}
}
