package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// LogBehavior бревно запоминает грань, от которой его поставили
type LogBehavior struct {
	block.BaseBehavior
	Orientation *block.StateChannel
}

// OnPlaced записывает ориентацию без каскада обновлений
func (b LogBehavior) OnPlaced(api block.API, x, y, z int, side block.Side, placer block.Placer) {
	v := api.States().GetValue(b.Orientation, side.String())
	if v == nil {
		return
	}
	api.SetBlockState(x, y, z, b.Orientation, v, false)
}
