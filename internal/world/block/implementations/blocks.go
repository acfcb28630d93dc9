package implementations

import (
	"fmt"

	"github.com/annel0/voxel-engine/internal/world/block"
)

// Строковые идентификаторы стандартных блоков
const (
	DirtName        = "dirt"
	GrassName       = "grass"
	BedrockName     = "bedrock"
	StoneName       = "stone"
	LogName         = "log"
	LeavesName      = "leaves"
	GlassName       = "glass"
	RoseName        = "rose"
	DirtSlabName    = "dirt_slab"
	CableName       = "cable"
	PowerSourceName = "power_source"
)

// Blocks стандартный набор блоков
type Blocks struct {
	Air         *block.Type
	Dirt        *block.Type
	Grass       *block.Type
	Bedrock     *block.Type
	Stone       *block.Type
	Log         *block.Type
	Leaves      *block.Type
	Glass       *block.Type
	Rose        *block.Type
	DirtSlab    *block.Type
	Cable       *block.Type
	PowerSource *block.Type
}

// Register регистрирует стандартные блоки. Порядок регистрации определяет плотные ID.
func Register(reg *block.Registry, ch *StateChannels) (*Blocks, error) {
	b := &Blocks{Air: reg.Air()}

	entries := []struct {
		dst **block.Type
		t   *block.Type
	}{
		{&b.Dirt, block.NewSolid(DirtName, nil)},
		{&b.Grass, block.NewSolid(GrassName, GrassBehavior{})},
		{&b.Bedrock, block.NewSolid(BedrockName, nil)},
		{&b.Stone, block.NewSolid(StoneName, nil)},
		{&b.Log, block.NewSolid(LogName, LogBehavior{Orientation: ch.Orientation})},
		{&b.Leaves, NewTransparent(LeavesName)},
		{&b.Glass, NewTransparent(GlassName)},
		{&b.Rose, NewRose(RoseName)},
		{&b.DirtSlab, NewSlab(DirtSlabName)},
		{&b.Cable, NewCable(CableName, ch)},
		{&b.PowerSource, block.NewSolid(PowerSourceName, PowerSourceBehavior{Power: ch.ElectricPower})},
	}

	for _, e := range entries {
		if err := reg.Register(e.t); err != nil {
			return nil, fmt.Errorf("регистрация блока %s: %w", e.t.Name, err)
		}
		*e.dst = e.t
	}
	return b, nil
}

// Content реестры стандартного содержимого мира
type Content struct {
	Registry *block.Registry
	States   *block.States
	Blocks   *Blocks
	Channels *StateChannels
}

// NewContent создаёт и закрывает реестры блоков и состояний со стандартным набором
func NewContent() (*Content, error) {
	states := block.NewStates()
	channels, err := RegisterStates(states)
	if err != nil {
		return nil, err
	}
	states.Close()

	reg := block.NewRegistry()
	blocks, err := Register(reg, channels)
	if err != nil {
		return nil, err
	}
	reg.Close()

	return &Content{
		Registry: reg,
		States:   states,
		Blocks:   blocks,
		Channels: channels,
	}, nil
}
