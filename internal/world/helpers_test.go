package world

import (
	"fmt"
	"testing"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/world/block"
)

type hookEvent struct {
	kind    string
	x, y, z int
}

// recorder записывает вызовы хуков в общий журнал
type recorder struct {
	block.BaseBehavior
	log *[]hookEvent
}

func (r recorder) OnUpdate(api block.API, x, y, z int) {
	*r.log = append(*r.log, hookEvent{"update", x, y, z})
}

func (r recorder) OnNeighborUpdate(api block.API, x, y, z int) {
	*r.log = append(*r.log, hookEvent{"neighbor", x, y, z})
}

func (r recorder) OnTick(api block.API, x, y, z int) {
	*r.log = append(*r.log, hookEvent{"tick", x, y, z})
}

func (r recorder) OnPlaced(api block.API, x, y, z int, side block.Side, placer block.Placer) {
	*r.log = append(*r.log, hookEvent{"placed:" + side.String(), x, y, z})
}

// slab занимает нижнюю половину вокселя
type slab struct {
	block.BaseBehavior
}

func (slab) SelectionBox(api block.API, x, y, z int) (physics.AABB, bool) {
	return physics.PartialBlockBox(x, y, z, 0, 0, 0, 1, 0.5, 1), true
}

// flatGenerator ровная поверхность на фиксированной высоте без заполнения
type flatGenerator struct {
	seed    int64
	surface int
}

func (g *flatGenerator) Seed() int64                            { return g.seed }
func (g *flatGenerator) SetSeed(seed int64)                     { g.seed = seed }
func (g *flatGenerator) SurfaceHeight(x, z int, seed int64) int { return g.surface }
func (g *flatGenerator) Populate(ch *Chunk)                     {}

type fixture struct {
	w *World

	stone, glass, half, rec *block.Type

	orientation *block.StateChannel
	power       *block.StateChannel

	events []hookEvent
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{}

	reg := block.NewRegistry()
	f.stone = reg.MustRegister(block.NewSolid("stone", nil))
	f.glass = reg.MustRegister(&block.Type{
		Name:       "glass",
		Solid:      true,
		Renderable: true,
		Selectable: true,
	})
	f.half = reg.MustRegister(block.NewSolid("half", slab{}))
	f.rec = reg.MustRegister(block.NewSolid("recorder", recorder{log: &f.events}))
	reg.Close()

	states := block.NewStates()
	f.orientation = states.MustRegisterState("orientation", "up", "down", "north", "south", "east", "west")
	powers := make([]string, MaxElectricPower+1)
	for i := range powers {
		powers[i] = fmt.Sprintf("power%d", i)
	}
	f.power = states.MustRegisterState(ElectricPowerChannel, powers...)
	states.Close()

	if opts.Provider == nil {
		opts.Provider = NewMemoryProvider(nil, false)
	}
	f.w = New(reg, states, opts)
	return f
}

// chunk загружает (создаёт пустым) чанк по координатам чанка
func (f *fixture) chunk(cx, cy, cz int) *Chunk {
	return f.w.LoadChunk(ChunkCoord{X: cx, Y: cy, Z: cz}, true)
}

func (f *fixture) powerValue(p int) *block.StateValue {
	return f.w.States().GetValue(f.power, fmt.Sprintf("power%d", p))
}

func (f *fixture) resetEvents() {
	f.events = f.events[:0]
}
