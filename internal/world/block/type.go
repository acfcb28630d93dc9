package block

import (
	"fmt"

	"github.com/annel0/voxel-engine/internal/physics"
)

// Type описывает тип блока: флаги возможностей и поведение.
// Плотный ID назначается реестром при регистрации.
type Type struct {
	Name       string   // Стабильный строковый ключ ("stone", "log")
	Solid      bool     // Твёрдый (участвует в столкновениях)
	Opaque     bool     // Не пропускает свет
	Renderable bool     // Отрисовывается
	Selectable bool     // Имеет рамку выделения (цель рейкаста)
	Behavior   Behavior // Хуки поведения

	id ID
}

// NewSolid создаёт обычный непрозрачный твёрдый блок
func NewSolid(name string, behavior Behavior) *Type {
	return &Type{
		Name:       name,
		Solid:      true,
		Opaque:     true,
		Renderable: true,
		Selectable: true,
		Behavior:   behavior,
	}
}

// ID возвращает плотный идентификатор
func (t *Type) ID() ID {
	return t.id
}

// IsAir сообщает, является ли блок воздухом
func (t *Type) IsAir() bool {
	return t == nil || t.id == AirID
}

// String реализует fmt.Stringer
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", t.Name, t.id)
}

// LetsLightThrough сообщает, пропускает ли блок свет
func (t *Type) LetsLightThrough() bool {
	return !t.Opaque
}

// IsRenderable сообщает, нужно ли рисовать блок
func (t *Type) IsRenderable() bool {
	return t.Renderable
}

// IsSideOpaque сообщает, закрывает ли грань side соседний блок
func (t *Type) IsSideOpaque(api API, x, y, z int, side Side) bool {
	if so, ok := t.Behavior.(SideOpacity); ok {
		return so.IsSideOpaque(api, x, y, z, side)
	}
	return t.Opaque
}

// SelectionBox возвращает рамку выделения вокселя; ok=false: блок нельзя выделить
func (t *Type) SelectionBox(api API, x, y, z int) (physics.AABB, bool) {
	if sb, ok := t.Behavior.(SelectionBoxer); ok {
		return sb.SelectionBox(api, x, y, z)
	}
	if !t.Selectable {
		return physics.AABB{}, false
	}
	return physics.BlockBox(x, y, z), true
}

// OnPlaced вызывается после установки блока игроком или API
func (t *Type) OnPlaced(api API, x, y, z int, side Side, placer Placer) {
	t.Behavior.OnPlaced(api, x, y, z, side, placer)
}

// OnUpdate вызывается при изменении самого вокселя
func (t *Type) OnUpdate(api API, x, y, z int) {
	t.Behavior.OnUpdate(api, x, y, z)
}

// OnNeighborUpdate вызывается при изменении соседнего вокселя
func (t *Type) OnNeighborUpdate(api API, x, y, z int) {
	t.Behavior.OnNeighborUpdate(api, x, y, z)
}

// OnTick вызывается на тике чанка
func (t *Type) OnTick(api API, x, y, z int) {
	t.Behavior.OnTick(api, x, y, z)
}
