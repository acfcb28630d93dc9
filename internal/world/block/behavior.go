package block

import (
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Placer тот, кто ставит блок (обычно сущность)
type Placer interface {
	Position() mgl64.Vec3
}

// Behavior определяет хуки поведения блока. Мир вызывает их с мировыми координатами.
type Behavior interface {
	// OnPlaced вызывается после установки блока игроком или сущностью
	OnPlaced(api API, x, y, z int, side Side, placer Placer)
	// OnUpdate вызывается при изменении самого вокселя
	OnUpdate(api API, x, y, z int)
	// OnNeighborUpdate вызывается при изменении одного из шести соседей
	OnNeighborUpdate(api API, x, y, z int)
	// OnTick вызывается тиком чанка
	OnTick(api API, x, y, z int)
}

// SelectionBoxer переопределяет рамку выделения блока
type SelectionBoxer interface {
	SelectionBox(api API, x, y, z int) (physics.AABB, bool)
}

// SideOpacity переопределяет непрозрачность отдельных граней
type SideOpacity interface {
	IsSideOpaque(api API, x, y, z int, side Side) bool
}

// BaseBehavior пустая реализация всех хуков; встраивается в конкретные поведения
type BaseBehavior struct{}

// OnPlaced ничего не делает
func (BaseBehavior) OnPlaced(api API, x, y, z int, side Side, placer Placer) {}

// OnUpdate ничего не делает
func (BaseBehavior) OnUpdate(api API, x, y, z int) {}

// OnNeighborUpdate ничего не делает
func (BaseBehavior) OnNeighborUpdate(api API, x, y, z int) {}

// OnTick ничего не делает
func (BaseBehavior) OnTick(api API, x, y, z int) {}

// AirBehavior поведение воздуха: ничего не делает и не выделяется
type AirBehavior struct {
	BaseBehavior
}

// SelectionBox воздух нельзя выделить
func (AirBehavior) SelectionBox(api API, x, y, z int) (physics.AABB, bool) {
	return physics.AABB{}, false
}
