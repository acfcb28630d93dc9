package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// CableBehavior проводит сигнал: мощность на единицу меньше наибольшей у соседей.
// Состояние пишется только при изменении, поэтому каскад затухает.
type CableBehavior struct {
	block.BaseBehavior
	Power      *block.StateChannel
	Connexions *block.StateChannel
}

// Conducts отмечает блок как проводник для соседних кабелей
func (CableBehavior) Conducts() bool { return true }

// OnPlaced пересчитывает мощность и соединения сразу после установки
func (b CableBehavior) OnPlaced(api block.API, x, y, z int, side block.Side, placer block.Placer) {
	b.refresh(api, x, y, z)
}

// OnUpdate пересчитывает кабель при собственном изменении
func (b CableBehavior) OnUpdate(api block.API, x, y, z int) {
	b.refresh(api, x, y, z)
}

// OnNeighborUpdate пересчитывает кабель после изменения соседа
func (b CableBehavior) OnNeighborUpdate(api block.API, x, y, z int) {
	b.refresh(api, x, y, z)
}

// IsSideOpaque кабель лежит на полу и не закрывает граней
func (CableBehavior) IsSideOpaque(api block.API, x, y, z int, side block.Side) bool {
	return false
}

func (b CableBehavior) refresh(api block.API, x, y, z int) {
	states := api.States()

	if conn := states.GetValue(b.Connexions, ConnexionName(b.connexions(api, x, y, z))); conn != nil &&
		api.GetBlockState(x, y, z, b.Connexions) != conn {
		api.SetBlockState(x, y, z, b.Connexions, conn, false)
	}

	power := api.DirectElectricPowerAt(x, y, z) - 1
	if power < 0 {
		power = 0
	}
	current := 0
	if v := api.GetBlockState(x, y, z, b.Power); v != nil {
		current = v.Ordinal()
	}
	if power == current {
		return
	}
	api.SetBlockState(x, y, z, b.Power, states.GetValue(b.Power, PowerName(power)), true)
}

// connexions маска горизонтальных соседей-проводников
func (CableBehavior) connexions(api block.API, x, y, z int) Connexion {
	var mask Connexion
	for i, side := range connexionSides {
		dx, dy, dz := side.Translation()
		if c, ok := api.GetBlockAt(x+dx, y+dy, z+dz).Behavior.(Conductor); ok && c.Conducts() {
			mask |= 1 << i
		}
	}
	return mask
}

// NewCable создаёт кабель
func NewCable(name string, ch *StateChannels) *block.Type {
	return &block.Type{
		Name:       name,
		Solid:      true,
		Renderable: true,
		Selectable: true,
		Behavior:   CableBehavior{Power: ch.ElectricPower, Connexions: ch.Connexions},
	}
}
