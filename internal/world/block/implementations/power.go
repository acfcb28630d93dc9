package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// Conductor блок, к которому присоединяются кабели
type Conductor interface {
	Conducts() bool
}

// PowerSourceBehavior источник сигнала максимальной мощности
type PowerSourceBehavior struct {
	block.BaseBehavior
	Power *block.StateChannel
}

// Conducts отмечает источник как проводник для соседних кабелей
func (PowerSourceBehavior) Conducts() bool { return true }

// OnPlaced выставляет полную мощность и оповещает соседей
func (b PowerSourceBehavior) OnPlaced(api block.API, x, y, z int, side block.Side, placer block.Placer) {
	b.ensurePower(api, x, y, z)
}

// OnUpdate восстанавливает мощность, если её стёрли
func (b PowerSourceBehavior) OnUpdate(api block.API, x, y, z int) {
	b.ensurePower(api, x, y, z)
}

func (b PowerSourceBehavior) ensurePower(api block.API, x, y, z int) {
	full := api.States().GetValue(b.Power, PowerName(MaxPower))
	if full == nil || api.GetBlockState(x, y, z, b.Power) == full {
		return
	}
	api.SetBlockState(x, y, z, b.Power, full, true)
}
