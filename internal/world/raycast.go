package world

import (
	"math"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/go-gl/mathgl/mgl64"
)

// Параметры луча
const (
	RayStep       = 0.005 // Шаг марширования
	RaySampleSize = 0.005 // Ребро куба-пробника
)

// CollisionType тип объекта, в который попал луч
type CollisionType uint8

const (
	CollisionNone CollisionType = iota
	CollisionBlock
	CollisionEntity
)

// String реализует fmt.Stringer
func (t CollisionType) String() string {
	switch t {
	case CollisionBlock:
		return "block"
	case CollisionEntity:
		return "entity"
	default:
		return "none"
	}
}

// CollisionInfo результат рейкаста.
// Для блока X/Y/Z содержат координаты вокселя, для сущности её позицию.
type CollisionInfo struct {
	X, Y, Z  float64
	Type     CollisionType
	Side     block.Side  // Грань блока, в которую попал луч
	Distance float64     // Пройденное лучом расстояние
	Value    interface{} // *block.Type или Entity
}

// Block возвращает блок попадания
func (c *CollisionInfo) Block() (*block.Type, bool) {
	t, ok := c.Value.(*block.Type)
	return t, ok && c.Type == CollisionBlock
}

// Entity возвращает сущность попадания
func (c *CollisionInfo) Entity() (Entity, bool) {
	e, ok := c.Value.(Entity)
	return e, ok && c.Type == CollisionEntity
}

// BlockPos возвращает координаты вокселя попадания
func (c *CollisionInfo) BlockPos() vec.Vec3 {
	return vec.Vec3{X: int(c.X), Y: int(c.Y), Z: int(c.Z)}
}

// PerformRayCast марширует луч из глаз sender по направлению взгляда
// с шагом RayStep до maxDist и записывает результат в out.
//
// На каждом шаге сначала проверяются рамки выделения вокселей, которых касается
// куб-пробник, затем коллайдеры живых сущностей (кроме самого sender).
// Попадание в сущность на том же шаге перезаписывает попадание в блок.
// Марширование прекращается на первом шаге с попаданием.
func (w *World) PerformRayCast(sender Entity, out *CollisionInfo, maxDist float64) {
	*out = CollisionInfo{Type: CollisionNone}
	defer func() { w.metrics.incRaycast(out.Type) }()

	dir := sender.Forward()
	if dir.Len() == 0 || maxDist < 0 {
		return
	}
	dir = dir.Normalize()
	origin := EyePosition(sender)
	steps := int(math.Floor(maxDist/RayStep + 1e-9))

	for i := 0; i <= steps; i++ {
		dist := float64(i) * RayStep
		sample := origin.Add(dir.Mul(dist))
		probe := physics.CubeAt(sample, RaySampleSize)

		hit := w.rayTestBlocks(probe, sample, dist, out)

		for _, e := range w.entities {
			if e.ID() == sender.ID() || e.IsDead() {
				continue
			}
			if e.BoundingBox().Intersects(probe) {
				p := e.Position()
				out.X, out.Y, out.Z = p.X(), p.Y(), p.Z()
				out.Type = CollisionEntity
				out.Value = e
				out.Distance = dist
				hit = true
			}
		}

		if hit {
			return
		}
	}
}

// rayTestBlocks проверяет воксели, которых касается куб-пробник
func (w *World) rayTestBlocks(probe physics.AABB, sample mgl64.Vec3, dist float64, out *CollisionInfo) bool {
	lo := vec.Floor(probe.Min)
	hi := vec.Floor(probe.Max)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				t := w.GetBlockAt(x, y, z)
				box, ok := t.SelectionBox(w, x, y, z)
				if !ok || !box.Intersects(probe) {
					continue
				}
				out.X, out.Y, out.Z = float64(x), float64(y), float64(z)
				out.Type = CollisionBlock
				out.Value = t
				out.Distance = dist
				out.Side = struckSide(mgl64.Vec3{float64(x) + 0.5, float64(y) + 0.5, float64(z) + 0.5}.Sub(sample))
				return true
			}
		}
	}
	return false
}

// struckSide определяет грань по наибольшей компоненте вектора
// от точки пробника к центру вокселя. При равенстве возвращается BOTTOM.
func struckSide(diff mgl64.Vec3) block.Side {
	ax, ay, az := math.Abs(diff.X()), math.Abs(diff.Y()), math.Abs(diff.Z())
	switch {
	case ax > ay && ax > az:
		if diff.X() > 0 {
			return block.SideWest
		}
		return block.SideEast
	case ay > ax && ay > az:
		if diff.Y() > 0 {
			return block.SideBottom
		}
		return block.SideTop
	case az > ax && az > ay:
		if diff.Z() > 0 {
			return block.SideNorth
		}
		return block.SideSouth
	}
	return block.SideBottom
}
