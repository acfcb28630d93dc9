package world

import (
	"sync/atomic"

	"github.com/annel0/voxel-engine/internal/world/block"
)

// Chunk представляет участок мира 16x16x16 вокселей.
//
// Данные хранятся плоскими массивами с индексом x + 16*(y + 16*z).
// Чанк не держит ссылок на соседей: они ищутся через провайдер мира.
type Chunk struct {
	coords ChunkCoord
	owner  *World // Невладеющая обратная ссылка

	blocks  [ChunkVolume]block.ID
	light   [ChunkVolume]float32
	states  [ChunkVolume]map[*block.StateChannel]*block.StateValue
	highest [ChunkArea]int // Верхний непустой y колонки или -1

	dirty atomic.Bool
}

// NewChunk создаёт чанк, заполненный воздухом с полной освещённостью
func NewChunk(owner *World, coords ChunkCoord) *Chunk {
	c := &Chunk{
		coords: coords,
		owner:  owner,
	}
	for i := range c.blocks {
		c.blocks[i] = block.AirID
		c.light[i] = 1
	}
	for i := range c.highest {
		c.highest[i] = -1
	}
	return c
}

// Coords возвращает координаты чанка
func (c *Chunk) Coords() ChunkCoord {
	return c.coords
}

// World возвращает мир-владелец
func (c *Chunk) World() *World {
	return c.owner
}

// ---- Мировые координаты ----

// GetBlock возвращает блок по мировым координатам
func (c *Chunk) GetBlock(worldX, worldY, worldZ int) *block.Type {
	return c.GetChunkBlock(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ))
}

// SetBlock устанавливает блок по мировым координатам
func (c *Chunk) SetBlock(worldX, worldY, worldZ int, t *block.Type) {
	c.SetChunkBlock(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ), t)
}

// GetLightValue возвращает освещённость по мировым координатам
func (c *Chunk) GetLightValue(worldX, worldY, worldZ int) float32 {
	return c.GetChunkLightValue(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ))
}

// SetLightValue устанавливает освещённость по мировым координатам
func (c *Chunk) SetLightValue(worldX, worldY, worldZ int, value float32) {
	c.SetChunkLightValue(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ), value)
}

// GetBlockState возвращает значение канала по мировым координатам
func (c *Chunk) GetBlockState(worldX, worldY, worldZ int, ch *block.StateChannel) *block.StateValue {
	return c.GetChunkBlockState(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ), ch)
}

// SetBlockState записывает значение канала по мировым координатам
func (c *Chunk) SetBlockState(worldX, worldY, worldZ int, ch *block.StateChannel, v *block.StateValue) {
	c.SetChunkBlockState(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ), ch, v)
}

// ClearStates удаляет все состояния вокселя по мировым координатам
func (c *Chunk) ClearStates(worldX, worldY, worldZ int) {
	c.ClearChunkState(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ))
}

// BlockStates возвращает копию набора состояний вокселя по мировым координатам
func (c *Chunk) BlockStates(worldX, worldY, worldZ int) map[*block.StateChannel]*block.StateValue {
	return c.ChunkBlockStates(WorldToLocal(worldX), WorldToLocal(worldY), WorldToLocal(worldZ))
}

// ---- Локальные координаты ----

// GetChunkBlock возвращает блок по локальным координатам
func (c *Chunk) GetChunkBlock(x, y, z int) *block.Type {
	return c.owner.blocks.MustGetByID(c.blocks[index(x, y, z)])
}

// SetChunkBlock устанавливает блок по локальным координатам и поддерживает кэш высот
func (c *Chunk) SetChunkBlock(x, y, z int, t *block.Type) {
	if t == nil {
		t = c.owner.blocks.Air()
	}
	c.blocks[index(x, y, z)] = t.ID()

	col := column(x, z)
	if y >= c.highest[col] {
		if !t.IsAir() {
			c.highest[col] = y
		} else if y == c.highest[col] {
			c.highest[col] = c.scanDown(x, y-1, z)
		}
	}

	c.MarkDirty()
	c.markNeighbors()
}

// scanDown ищет первый непустой воксель колонки, начиная с fromY вниз
func (c *Chunk) scanDown(x, fromY, z int) int {
	y := fromY
	for ; y >= 0; y-- {
		if c.blocks[index(x, y, z)] != block.AirID {
			break
		}
	}
	return y
}

// GetChunkLightValue возвращает освещённость по локальным координатам
func (c *Chunk) GetChunkLightValue(x, y, z int) float32 {
	return c.light[index(x, y, z)]
}

// SetChunkLightValue устанавливает освещённость в диапазоне [0,1]
func (c *Chunk) SetChunkLightValue(x, y, z int, value float32) {
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	c.light[index(x, y, z)] = value
	c.MarkDirty()
	c.markNeighbors()
}

// GetChunkBlockState возвращает значение канала или nil
func (c *Chunk) GetChunkBlockState(x, y, z int, ch *block.StateChannel) *block.StateValue {
	m := c.states[index(x, y, z)]
	if m == nil {
		return nil
	}
	return m[ch]
}

// SetChunkBlockState записывает значение канала; nil удаляет канал у вокселя
func (c *Chunk) SetChunkBlockState(x, y, z int, ch *block.StateChannel, v *block.StateValue) {
	i := index(x, y, z)
	if v == nil {
		delete(c.states[i], ch)
		if len(c.states[i]) == 0 {
			c.states[i] = nil
		}
	} else {
		if c.states[i] == nil {
			c.states[i] = make(map[*block.StateChannel]*block.StateValue, 1)
		}
		c.states[i][ch] = v
	}
	c.MarkDirty()
	c.markNeighbors()
}

// ClearChunkState удаляет все каналы вокселя
func (c *Chunk) ClearChunkState(x, y, z int) {
	c.states[index(x, y, z)] = nil
	c.MarkDirty()
	c.markNeighbors()
}

// ChunkBlockStates возвращает копию набора состояний вокселя
func (c *Chunk) ChunkBlockStates(x, y, z int) map[*block.StateChannel]*block.StateValue {
	m := c.states[index(x, y, z)]
	out := make(map[*block.StateChannel]*block.StateValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Fill заполняет весь чанк одним блоком
func (c *Chunk) Fill(t *block.Type) {
	if t == nil {
		t = c.owner.blocks.Air()
	}
	id := t.ID()
	for i := range c.blocks {
		c.blocks[i] = id
	}
	h := ChunkSize - 1
	if t.IsAir() {
		h = -1
	}
	for i := range c.highest {
		c.highest[i] = h
	}
	c.MarkDirty()
	c.markNeighbors()
}

// ---- Кэш высот ----

// Highest возвращает верхний непустой y колонки или -1
func (c *Chunk) Highest(x, z int) int {
	return c.highest[column(x, z)]
}

// HighestBlock возвращает верхний непустой блок колонки
func (c *Chunk) HighestBlock(x, z int) (*block.Type, bool) {
	y := c.highest[column(x, z)]
	if y < 0 {
		return nil, false
	}
	return c.GetChunkBlock(x, y, z), true
}

// ---- Грязность ----

// IsDirty сообщает о неучтённых изменениях
func (c *Chunk) IsDirty() bool {
	return c.dirty.Load()
}

// MarkDirty помечает чанк изменённым
func (c *Chunk) MarkDirty() {
	c.dirty.Store(true)
}

// CleanUpDirtiness снимает пометку; вызывается потребителем (например, сборщиком меша)
func (c *Chunk) CleanUpDirtiness() {
	c.dirty.Store(false)
}

// markNeighbors помечает грязными шесть соседних чанков, если они уже загружены
func (c *Chunk) markNeighbors() {
	if c.owner == nil || c.owner.provider == nil {
		return
	}
	for _, d := range faceOffsets {
		if n := c.owner.provider.Get(c.owner, c.coords.Offset(d[0], d[1], d[2])); n != nil {
			n.MarkDirty()
		}
	}
}

var faceOffsets = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// ---- Тик ----

// Update доставляет тик каждому блоку колонки не выше поверхности генератора (+1 над ней)
func (c *Chunk) Update() {
	gen := c.owner.generator
	if gen == nil {
		return
	}
	seed := gen.Seed()
	origin := c.coords.Origin()

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			wx, wz := origin.X+x, origin.Z+z
			maxY := gen.SurfaceHeight(wx, wz, seed) - origin.Y + 1
			for y := 0; y <= maxY && y < ChunkSize; y++ {
				t := c.GetChunkBlock(x, y, z)
				t.OnTick(c.owner, wx, origin.Y+y, wz)
			}
		}
	}
}

// ---- Восстановление из хранилища ----

// RestoreVoxel записывает воксель без пересчёта кэша и пометок.
// После серии вызовов нужно вызвать FinishRestore.
func (c *Chunk) RestoreVoxel(x, y, z int, t *block.Type, light float32, states []*block.StateValue) {
	i := index(x, y, z)
	if t == nil {
		t = c.owner.blocks.Air()
	}
	c.blocks[i] = t.ID()
	c.light[i] = light
	c.states[i] = nil
	for _, v := range states {
		if v == nil {
			continue
		}
		if c.states[i] == nil {
			c.states[i] = make(map[*block.StateChannel]*block.StateValue, len(states))
		}
		c.states[i][v.Channel()] = v
	}
}

// FinishRestore пересчитывает кэш высот целиком и помечает чанк и соседей
func (c *Chunk) FinishRestore() {
	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			c.highest[column(x, z)] = c.scanDown(x, ChunkSize-1, z)
		}
	}
	c.MarkDirty()
	c.markNeighbors()
}
