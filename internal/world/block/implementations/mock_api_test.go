package implementations

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/stretchr/testify/require"
)

// mockBlockAPI реализует block.API для тестирования поведений без мира
type mockBlockAPI struct {
	content *Content
	blocks  map[vec.Vec3]*block.Type
	states  map[vec.Vec3]map[*block.StateChannel]*block.StateValue
	updates []vec.Vec3
}

func newMockBlockAPI(t *testing.T) *mockBlockAPI {
	t.Helper()
	content, err := NewContent()
	require.NoError(t, err)
	return &mockBlockAPI{
		content: content,
		blocks:  make(map[vec.Vec3]*block.Type),
		states:  make(map[vec.Vec3]map[*block.StateChannel]*block.StateValue),
	}
}

func (m *mockBlockAPI) GetBlockAt(x, y, z int) *block.Type {
	if t, ok := m.blocks[vec.Vec3{X: x, Y: y, Z: z}]; ok {
		return t
	}
	return m.content.Registry.Air()
}

func (m *mockBlockAPI) SetBlock(x, y, z int, t *block.Type) {
	m.blocks[vec.Vec3{X: x, Y: y, Z: z}] = t
}

func (m *mockBlockAPI) GetBlockState(x, y, z int, ch *block.StateChannel) *block.StateValue {
	return m.states[vec.Vec3{X: x, Y: y, Z: z}][ch]
}

func (m *mockBlockAPI) SetBlockState(x, y, z int, ch *block.StateChannel, v *block.StateValue, notify bool) {
	pos := vec.Vec3{X: x, Y: y, Z: z}
	if m.states[pos] == nil {
		m.states[pos] = make(map[*block.StateChannel]*block.StateValue)
	}
	m.states[pos][ch] = v
	if notify {
		m.updates = append(m.updates, pos)
	}
}

func (m *mockBlockAPI) ClearStates(x, y, z int) {
	delete(m.states, vec.Vec3{X: x, Y: y, Z: z})
}

func (m *mockBlockAPI) DirectElectricPowerAt(x, y, z int) int {
	best := 0
	for _, s := range block.Sides {
		dx, dy, dz := s.Translation()
		if v := m.GetBlockState(x+dx, y+dy, z+dz, m.content.Channels.ElectricPower); v != nil && v.Ordinal() > best {
			best = v.Ordinal()
		}
	}
	return best
}

func (m *mockBlockAPI) UpdateBlockAndNeighbors(x, y, z int) {
	m.updates = append(m.updates, vec.Vec3{X: x, Y: y, Z: z})
}

func (m *mockBlockAPI) Blocks() *block.Registry { return m.content.Registry }
func (m *mockBlockAPI) States() *block.States   { return m.content.States }
