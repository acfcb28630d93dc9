package vec

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int
	Y int
	Z int
}

// FloorDiv16 делит на 16 с округлением вниз (корректно для отрицательных значений)
func FloorDiv16(v int) int {
	return v >> 4
}

// FloorMod16 возвращает остаток от деления на 16 в диапазоне [0,16)
func FloorMod16(v int) int {
	return v & 0xF
}

// ToChunkCoords преобразует мировые координаты в координаты чанка
func (v Vec3) ToChunkCoords() Vec3 {
	return Vec3{X: FloorDiv16(v.X), Y: FloorDiv16(v.Y), Z: FloorDiv16(v.Z)}
}

// LocalInChunk возвращает локальные координаты внутри чанка
func (v Vec3) LocalInChunk() Vec3 {
	return Vec3{X: FloorMod16(v.X), Y: FloorMod16(v.Y), Z: FloorMod16(v.Z)}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// DistanceSq возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceSq(other Vec3) int {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// ToFloat переводит вектор в mgl64.Vec3
func (v Vec3) ToFloat() mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Floor возвращает воксель, содержащий точку
func Floor(p mgl64.Vec3) Vec3 {
	return Vec3{
		X: int(math.Floor(p.X())),
		Y: int(math.Floor(p.Y())),
		Z: int(math.Floor(p.Z())),
	}
}
