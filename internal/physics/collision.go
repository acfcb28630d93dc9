package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AABB представляет осевой параллелепипед (коллайдер блока или сущности)
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB создаёт коллайдер по двум углам; углы упорядочиваются покомпонентно
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())},
		Max: mgl64.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())},
	}
}

// BlockBox возвращает единичный куб вокселя (x,y,z)
func BlockBox(x, y, z int) AABB {
	return PartialBlockBox(x, y, z, 0, 0, 0, 1, 1, 1)
}

// PartialBlockBox возвращает часть вокселя, заданную долями [0,1] по каждой оси
func PartialBlockBox(x, y, z int, minX, minY, minZ, maxX, maxY, maxZ float64) AABB {
	base := mgl64.Vec3{float64(x), float64(y), float64(z)}
	return AABB{
		Min: base.Add(mgl64.Vec3{minX, minY, minZ}),
		Max: base.Add(mgl64.Vec3{maxX, maxY, maxZ}),
	}
}

// CubeAt возвращает куб с ребром size, центрированный в точке center
func CubeAt(center mgl64.Vec3, size float64) AABB {
	half := size / 2
	h := mgl64.Vec3{half, half, half}
	return AABB{Min: center.Sub(h), Max: center.Add(h)}
}

// EntityBox возвращает коллайдер сущности: основание в точке pos, центр по X/Z
func EntityBox(pos mgl64.Vec3, width, height, depth float64) AABB {
	return AABB{
		Min: mgl64.Vec3{pos.X() - width/2, pos.Y(), pos.Z() - depth/2},
		Max: mgl64.Vec3{pos.X() + width/2, pos.Y() + height, pos.Z() + depth/2},
	}
}

// Translate сдвигает коллайдер на вектор
func (b AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Center возвращает центр коллайдера
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size возвращает размеры коллайдера по осям
func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects проверяет пересечение двух коллайдеров (касание гранями считается пересечением)
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// ContainsPoint проверяет, находится ли точка внутри коллайдера
func (b AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}
