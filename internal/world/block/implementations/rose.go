package implementations

import (
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// RoseBehavior цветок: маленькая рамка выделения, ломается без опоры снизу
type RoseBehavior struct {
	TransparentBehavior
}

// SelectionBox рамка цветка в центре вокселя
func (RoseBehavior) SelectionBox(api block.API, x, y, z int) (physics.AABB, bool) {
	return physics.PartialBlockBox(x, y, z, 0.3, 0, 0.3, 0.7, 0.6, 0.7), true
}

// OnUpdate проверяет опору цветка
func (b RoseBehavior) OnUpdate(api block.API, x, y, z int) {
	b.checkSupport(api, x, y, z)
}

// OnNeighborUpdate ломает цветок, если под ним пусто
func (b RoseBehavior) OnNeighborUpdate(api block.API, x, y, z int) {
	b.checkSupport(api, x, y, z)
}

func (RoseBehavior) checkSupport(api block.API, x, y, z int) {
	if api.GetBlockAt(x, y-1, z).IsAir() {
		api.SetBlock(x, y, z, api.Blocks().Air())
	}
}

// NewRose создаёт нетвёрдый цветок
func NewRose(name string) *block.Type {
	return &block.Type{
		Name:       name,
		Renderable: true,
		Selectable: true,
		Behavior:   RoseBehavior{},
	}
}
