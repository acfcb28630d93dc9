package world

import (
	"fmt"

	"github.com/annel0/voxel-engine/internal/vec"
)

const (
	ChunkSize   = 16                                // Ребро чанка в вокселях
	ChunkArea   = ChunkSize * ChunkSize             // Колонок в чанке
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize // Вокселей в чанке
)

// ChunkCoord неизменяемые координаты чанка (мировые координаты, делённые на 16 с округлением вниз)
type ChunkCoord struct {
	X, Y, Z int
}

// String реализует fmt.Stringer
func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Offset возвращает координаты соседнего чанка
func (c ChunkCoord) Offset(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Origin возвращает мировые координаты вокселя (0,0,0) чанка
func (c ChunkCoord) Origin() vec.Vec3 {
	return vec.Vec3{X: c.X * ChunkSize, Y: c.Y * ChunkSize, Z: c.Z * ChunkSize}
}

// ChunkCoordOf возвращает координаты чанка, содержащего мировой воксель
func ChunkCoordOf(x, y, z int) ChunkCoord {
	return ChunkCoord{X: WorldToChunk(x), Y: WorldToChunk(y), Z: WorldToChunk(z)}
}

// WorldToChunk делит мировую координату на 16 с округлением вниз
func WorldToChunk(v int) int {
	return vec.FloorDiv16(v)
}

// WorldToLocal возвращает локальную координату в [0,16) (модуль с округлением вниз)
func WorldToLocal(v int) int {
	return vec.FloorMod16(v)
}

// index линеаризует локальные координаты: x + 16*(y + 16*z)
func index(x, y, z int) int {
	return x + ChunkSize*(y+ChunkSize*z)
}

// column индекс колонки (x,z) в кэше высот
func column(x, z int) int {
	return x + ChunkSize*z
}

// inChunk проверяет, что локальные координаты лежат внутри чанка
func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}
