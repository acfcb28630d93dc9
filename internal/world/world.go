package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/google/uuid"
)

// ElectricPowerChannel имя канала состояния с мощностью сигнала
const ElectricPowerChannel = "electricPower"

// MaxElectricPower максимальная мощность сигнала
const MaxElectricPower = 15

// DefaultSkyCeiling высота, до которой CanBlockSeeSky ищет препятствия
const DefaultSkyCeiling = 256

// ErrChunkExists возвращается при попытке создать уже загруженный чанк
var ErrChunkExists = errors.New("world: чанк уже существует")

var _ block.API = (*World)(nil)

// Options параметры создания мира. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	Name       string
	Provider   ChunkProvider   // По умолчанию MemoryProvider с генерацией
	Generator  Generator       // Может быть nil: чанки не генерируются и не тикают
	Logger     *logging.Logger // Может быть nil
	Metrics    *Metrics        // Может быть nil
	SkyCeiling int             // Верхняя граница для CanBlockSeeSky
}

// World владеет провайдером чанков, сущностями и генератором.
// Все изменения выполняются в одной горутине тика; остальные горутины
// оборачивают доступ в Locked.
type World struct {
	mu sync.Mutex

	name      string
	blocks    *block.Registry
	states    *block.States
	provider  ChunkProvider
	generator Generator
	rng       *rand.Rand

	entities   []Entity
	spawnMu    sync.Mutex
	spawnQueue []Entity

	skyCeiling    int
	electricPower *block.StateChannel
	tick          uint64

	logger  *logging.Logger
	metrics *Metrics
}

// New создаёт мир поверх закрытых реестров блоков и состояний
func New(blocks *block.Registry, states *block.States, opts Options) *World {
	w := &World{
		name:       opts.Name,
		blocks:     blocks,
		states:     states,
		provider:   opts.Provider,
		generator:  opts.Generator,
		skyCeiling: opts.SkyCeiling,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
	if w.name == "" {
		w.name = "world"
	}
	if w.provider == nil {
		w.provider = NewMemoryProvider(nil, true)
	}
	if w.skyCeiling <= 0 {
		w.skyCeiling = DefaultSkyCeiling
	}
	if mp, ok := w.provider.(*MemoryProvider); ok && mp.logger == nil {
		mp.SetLogger(w.logger)
	}

	var seed int64
	if w.generator != nil {
		seed = w.generator.Seed()
	}
	w.rng = rand.New(rand.NewSource(seed))

	if states != nil {
		w.electricPower = states.GetState(ElectricPowerChannel)
	}

	w.logger.Info("Мир %q создан (сид %d, блоков %d)", w.name, seed, blocks.Len())
	return w
}

// Name возвращает имя мира
func (w *World) Name() string { return w.name }

// Blocks возвращает реестр блоков
func (w *World) Blocks() *block.Registry { return w.blocks }

// States возвращает реестр состояний
func (w *World) States() *block.States { return w.states }

// Provider возвращает провайдер чанков
func (w *World) Provider() ChunkProvider { return w.provider }

// Generator возвращает генератор (может быть nil)
func (w *World) Generator() Generator { return w.generator }

// RNG возвращает генератор случайных чисел мира (засеян сидом генератора)
func (w *World) RNG() *rand.Rand { return w.rng }

// Logger возвращает логгер мира
func (w *World) Logger() *logging.Logger { return w.logger }

// Ticks возвращает число выполненных тиков
func (w *World) Ticks() uint64 { return w.tick }

// Seed возвращает сид генератора
func (w *World) Seed() int64 {
	if w.generator == nil {
		return 0
	}
	return w.generator.Seed()
}

// SetSeed меняет сид генератора
func (w *World) SetSeed(seed int64) {
	if w.generator != nil {
		w.generator.SetSeed(seed)
	}
}

// Locked выполняет fn под блокировкой мира. Горутина тика держит ту же блокировку.
func (w *World) Locked(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

// ---- Чанки ----

// Chunk возвращает загруженный чанк, содержащий мировой воксель, или nil
func (w *World) Chunk(x, y, z int) *Chunk {
	return w.provider.Get(w, ChunkCoordOf(x, y, z))
}

// ChunkAt возвращает загруженный чанк по его координатам или nil
func (w *World) ChunkAt(c ChunkCoord) *Chunk {
	return w.provider.Get(w, c)
}

// AddChunk регистрирует готовый чанк
func (w *World) AddChunk(ch *Chunk) {
	w.provider.AddChunk(w, ch)
}

// DoesChunkExist сообщает, загружен ли чанк
func (w *World) DoesChunkExist(c ChunkCoord) bool {
	return w.provider.Exists(w, c)
}

// CreateChunk создаёт чанк; если он уже загружен, возвращает ErrChunkExists
func (w *World) CreateChunk(c ChunkCoord) (*Chunk, error) {
	if w.provider.Exists(w, c) {
		w.logger.Error("Невозможно создать чанк поверх существующего %s", c)
		return nil, fmt.Errorf("%w: %s", ErrChunkExists, c)
	}
	return w.provider.Create(w, c), nil
}

// LoadChunk возвращает чанк; при generate=true отсутствующий чанк создаётся
func (w *World) LoadChunk(c ChunkCoord, generate bool) *Chunk {
	if generate {
		return w.provider.GetOrCreate(w, c)
	}
	return w.provider.Get(w, c)
}

// ---- Блоки ----

// GetBlockAt возвращает блок; отсутствующий чанк читается как воздух
func (w *World) GetBlockAt(x, y, z int) *block.Type {
	c := w.Chunk(x, y, z)
	if c == nil {
		return w.blocks.Air()
	}
	return c.GetBlock(x, y, z)
}

// BlockNextTo возвращает блок по соседству с гранью side
func (w *World) BlockNextTo(x, y, z int, side block.Side) *block.Type {
	dx, dy, dz := side.Translation()
	return w.GetBlockAt(x+dx, y+dy, z+dz)
}

// SetBlock устанавливает блок и запускает каскад обновлений.
// При смене типа состояния вокселя сбрасываются.
// В отсутствующий чанк запись не выполняется.
func (w *World) SetBlock(x, y, z int, t *block.Type) {
	c := w.Chunk(x, y, z)
	if c == nil {
		return
	}
	w.replaceBlock(c, x, y, z, t)
	w.UpdateBlockAndNeighbors(x, y, z)
}

func (w *World) replaceBlock(c *Chunk, x, y, z int, t *block.Type) *block.Type {
	if t == nil {
		t = w.blocks.Air()
	}
	if c.GetBlock(x, y, z) != t {
		c.ClearStates(x, y, z)
	}
	c.SetBlock(x, y, z, t)
	return t
}

// PlaceBlock ставит блок от имени placer и вызывает хук установки.
// Возвращает false, если чанк не загружен.
func (w *World) PlaceBlock(x, y, z int, t *block.Type, side block.Side, placer block.Placer) bool {
	c := w.Chunk(x, y, z)
	if c == nil {
		return false
	}
	t = w.replaceBlock(c, x, y, z, t)
	w.UpdateBlockAndNeighbors(x, y, z)
	t.OnPlaced(w, x, y, z, side, placer)
	return true
}

// GetLightValue возвращает освещённость вокселя (0 в отсутствующем чанке)
func (w *World) GetLightValue(x, y, z int) float32 {
	c := w.Chunk(x, y, z)
	if c == nil {
		return 0
	}
	return c.GetLightValue(x, y, z)
}

// SetLightValue устанавливает освещённость вокселя
func (w *World) SetLightValue(x, y, z int, value float32) {
	if c := w.Chunk(x, y, z); c != nil {
		c.SetLightValue(x, y, z, value)
	}
}

// ---- Состояния ----

// GetBlockState возвращает значение канала или nil
func (w *World) GetBlockState(x, y, z int, ch *block.StateChannel) *block.StateValue {
	c := w.Chunk(x, y, z)
	if c == nil {
		return nil
	}
	return c.GetBlockState(x, y, z, ch)
}

// SetBlockState записывает значение канала; notify запускает каскад обновлений
func (w *World) SetBlockState(x, y, z int, ch *block.StateChannel, v *block.StateValue, notify bool) {
	c := w.Chunk(x, y, z)
	if c == nil {
		return
	}
	c.SetBlockState(x, y, z, ch, v)
	if notify {
		w.UpdateBlockAndNeighbors(x, y, z)
	}
}

// ClearStates удаляет все состояния вокселя
func (w *World) ClearStates(x, y, z int) {
	if c := w.Chunk(x, y, z); c != nil {
		c.ClearStates(x, y, z)
	}
}

// BlockStates возвращает копию набора состояний вокселя (nil в отсутствующем чанке)
func (w *World) BlockStates(x, y, z int) map[*block.StateChannel]*block.StateValue {
	c := w.Chunk(x, y, z)
	if c == nil {
		return nil
	}
	return c.BlockStates(x, y, z)
}

// ---- Каскад обновлений ----

// neighborOrder порядок обхода соседей в каскаде обновлений
var neighborOrder = [6][3]int{
	{0, 0, 1}, {0, 0, -1},
	{0, 1, 0}, {0, -1, 0},
	{1, 0, 0}, {-1, 0, 0},
}

// UpdateBlockAndNeighbors вызывает OnUpdate у вокселя и OnNeighborUpdate у шести соседей
// в порядке z+1, z-1, y+1, y-1, x+1, x-1
func (w *World) UpdateBlockAndNeighbors(x, y, z int) {
	w.metrics.incBlockUpdates()
	w.GetBlockAt(x, y, z).OnUpdate(w, x, y, z)
	for _, d := range neighborOrder {
		nx, ny, nz := x+d[0], y+d[1], z+d[2]
		w.GetBlockAt(nx, ny, nz).OnNeighborUpdate(w, nx, ny, nz)
	}
}

// DirectElectricPowerAt возвращает наибольшую мощность среди шести соседей.
// Мощность 15 возвращается сразу, отсутствие значений даёт 0.
func (w *World) DirectElectricPowerAt(x, y, z int) int {
	if w.electricPower == nil || w.Chunk(x, y, z) == nil {
		return 0
	}
	maxPower := 0
	for _, side := range block.Sides {
		dx, dy, dz := side.Translation()
		v := w.GetBlockState(x+dx, y+dy, z+dz, w.electricPower)
		if v == nil || v.Channel() != w.electricPower {
			continue
		}
		p := v.Ordinal()
		if p >= MaxElectricPower {
			return MaxElectricPower
		}
		if p > maxPower {
			maxPower = p
		}
	}
	return maxPower
}

// CanBlockSeeSky проверяет, что все блоки над вокселем до потолка пропускают свет
func (w *World) CanBlockSeeSky(x, y, z int) bool {
	for y1 := y + 1; y1 < w.skyCeiling; y1++ {
		if !w.GetBlockAt(x, y1, z).LetsLightThrough() {
			return false
		}
	}
	return true
}

// ---- Сущности ----

// Spawn ставит сущность в очередь; в список она попадёт на следующем тике
func (w *World) Spawn(e Entity) {
	w.spawnMu.Lock()
	w.spawnQueue = append(w.spawnQueue, e)
	w.spawnMu.Unlock()
	w.logger.Debug("Сущность %s (%s) поставлена в очередь появления", e.ID(), e.Type())
}

// Entities возвращает снимок списка живых сущностей
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.entities))
	copy(out, w.entities)
	return out
}

// Entity ищет сущность по идентификатору
func (w *World) Entity(id uuid.UUID) (Entity, bool) {
	for _, e := range w.entities {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Update выполняет один тик: переносит очередь появления в список сущностей,
// тикает чанк каждой сущности и саму сущность, затем удаляет мёртвых.
func (w *World) Update(delta float64) {
	start := time.Now()

	w.spawnMu.Lock()
	w.entities = append(w.entities, w.spawnQueue...)
	w.spawnQueue = nil
	w.spawnMu.Unlock()

	for _, e := range w.entities {
		p := vec.Floor(e.Position())
		if c := w.Chunk(p.X, p.Y, p.Z); c != nil {
			c.Update()
		}
		e.Update(w, delta)
	}

	alive := w.entities[:0]
	for _, e := range w.entities {
		if e.IsDead() {
			w.logger.Debug("Сущность %s удалена", e.ID())
			continue
		}
		alive = append(alive, e)
	}
	for i := len(alive); i < len(w.entities); i++ {
		w.entities[i] = nil
	}
	w.entities = alive
	w.tick++

	if w.metrics != nil {
		w.metrics.observeTick(time.Since(start), len(w.entities), w.chunkCount())
	}
}

// chunkCount возвращает число резидентных чанков
func (w *World) chunkCount() int {
	if counter, ok := w.provider.(interface{ Len() int }); ok {
		return counter.Len()
	}
	return len(w.provider.Chunks())
}
