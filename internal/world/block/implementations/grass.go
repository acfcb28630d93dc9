package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// GrassBehavior трава превращается в землю, если её накрыл непрозрачный блок
type GrassBehavior struct {
	block.BaseBehavior
}

// OnTick проверяет блок сверху
func (GrassBehavior) OnTick(api block.API, x, y, z int) {
	if api.GetBlockAt(x, y+1, z).LetsLightThrough() {
		return
	}
	dirt, ok := api.Blocks().Lookup(DirtName)
	if !ok {
		return
	}
	api.SetBlock(x, y, z, dirt)
}
