package world

import (
	"math"
	"sync/atomic"

	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Generator описывает генератор ландшафта, которым пользуется мир
type Generator interface {
	// Seed возвращает текущий сид
	Seed() int64
	// SetSeed меняет сид
	SetSeed(seed int64)
	// SurfaceHeight возвращает мировую высоту верхнего блока поверхности в колонке (x, z)
	SurfaceHeight(x, z int, seed int64) int
	// Populate заполняет только что созданный чанк
	Populate(ch *Chunk)
}

// Константы генерации по умолчанию
const (
	DefaultBaseHeight = 64   // Средняя высота поверхности
	DefaultAmplitude  = 8.0  // Разброс высоты вокруг средней
	DefaultNoiseScale = 0.05 // Масштаб шума (сглаженность ландшафта)
	DirtDepth         = 3    // Толщина слоя земли под травой
)

// Palette имена блоков, которыми генератор заполняет чанки
type Palette struct {
	Bedrock string
	Stone   string
	Dirt    string
	Grass   string
}

// DefaultPalette палитра стандартного набора блоков
var DefaultPalette = Palette{
	Bedrock: "bedrock",
	Stone:   "stone",
	Dirt:    "dirt",
	Grass:   "grass",
}

// PerlinGenerator генерирует холмистый ландшафт по шуму Перлина
type PerlinGenerator struct {
	seed       atomic.Int64
	BaseHeight int     // Средняя высота поверхности
	Amplitude  float64 // Разброс высоты
	NoiseScale float64 // Масштаб шума
	Palette    Palette // Блоки слоёв
}

// NewPerlinGenerator создаёт генератор с параметрами по умолчанию
func NewPerlinGenerator(seed int64, baseHeight int) *PerlinGenerator {
	if baseHeight <= 0 {
		baseHeight = DefaultBaseHeight
	}
	g := &PerlinGenerator{
		BaseHeight: baseHeight,
		Amplitude:  DefaultAmplitude,
		NoiseScale: DefaultNoiseScale,
		Palette:    DefaultPalette,
	}
	g.seed.Store(seed)
	return g
}

// Seed возвращает сид генератора
func (g *PerlinGenerator) Seed() int64 {
	return g.seed.Load()
}

// SetSeed меняет сид генератора
func (g *PerlinGenerator) SetSeed(seed int64) {
	g.seed.Store(seed)
}

// SurfaceHeight возвращает мировую высоту поверхности.
// Значение детерминировано для пары (x, z) и сида.
func (g *PerlinGenerator) SurfaceHeight(x, z int, seed int64) int {
	n := util.PerlinNoise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale, seed)
	// n в [0,1], переводим в [-1,1]
	return g.BaseHeight + int(math.Round(g.Amplitude*(2*n-1)))
}

// Populate заполняет чанк: бедрок на y=0, камень, слой земли и трава сверху
func (g *PerlinGenerator) Populate(ch *Chunk) {
	reg := ch.World().Blocks()
	bedrock := reg.Get(g.Palette.Bedrock)
	stone := reg.Get(g.Palette.Stone)
	dirt := reg.Get(g.Palette.Dirt)
	grass := reg.Get(g.Palette.Grass)

	seed := g.Seed()
	origin := ch.Coords().Origin()

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			surface := g.SurfaceHeight(origin.X+x, origin.Z+z, seed)
			for y := 0; y < ChunkSize; y++ {
				wy := origin.Y + y
				var t *block.Type
				switch {
				case wy < 0 || wy > surface:
					continue
				case wy == 0:
					t = bedrock
				case wy == surface:
					t = grass
				case wy >= surface-DirtDepth:
					t = dirt
				default:
					t = stone
				}
				ch.RestoreVoxel(x, y, z, t, 1, nil)
			}
		}
	}
	ch.FinishRestore()
}
