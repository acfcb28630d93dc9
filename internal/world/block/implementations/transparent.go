package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// TransparentBehavior твёрдый блок, пропускающий свет (листва, стекло)
type TransparentBehavior struct {
	block.BaseBehavior
}

// IsSideOpaque ни одна грань не закрывает соседей
func (TransparentBehavior) IsSideOpaque(api block.API, x, y, z int, side block.Side) bool {
	return false
}

// NewTransparent создаёт прозрачный твёрдый блок
func NewTransparent(name string) *block.Type {
	return &block.Type{
		Name:       name,
		Solid:      true,
		Opaque:     false,
		Renderable: true,
		Selectable: true,
		Behavior:   TransparentBehavior{},
	}
}
