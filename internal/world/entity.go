package world

import (
	"math"
	"sync/atomic"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// EntityType определяет тип сущности
type EntityType uint16

const (
	EntityTypeUnknown EntityType = 0 // Неизвестный тип
	EntityTypePlayer  EntityType = 1 // Игрок
	EntityTypeProbe   EntityType = 2 // Невидимый зонд для отладочных запросов
)

// String реализует fmt.Stringer
func (t EntityType) String() string {
	switch t {
	case EntityTypePlayer:
		return "player"
	case EntityTypeProbe:
		return "probe"
	default:
		return "unknown"
	}
}

// Entity представляет собой интерфейс для всех сущностей мира
type Entity interface {
	ID() uuid.UUID                  // Уникальный идентификатор
	Type() EntityType               // Тип сущности
	Position() mgl64.Vec3           // Позиция основания
	EyeOffset() float64             // Высота глаз над основанием
	Forward() mgl64.Vec3            // Единичный вектор взгляда
	BoundingBox() physics.AABB      // Коллайдер в мировых координатах
	Update(w *World, delta float64) // Тик сущности (delta в секундах)
	IsDead() bool                   // Сущность подлежит удалению
}

// EyePosition возвращает точку глаз сущности
func EyePosition(e Entity) mgl64.Vec3 {
	return e.Position().Add(mgl64.Vec3{0, e.EyeOffset(), 0})
}

// BaseEntity общая реализация Entity: позиция, скорость, поворот и размер.
// Поля меняются только под блокировкой мира.
type BaseEntity struct {
	id        uuid.UUID
	typ       EntityType
	pos       mgl64.Vec3
	velocity  mgl64.Vec3
	yaw       float64 // Поворот вокруг Y, градусы
	pitch     float64 // Наклон вверх-вниз, градусы
	size      mgl64.Vec3
	eyeOffset float64
	dead      atomic.Bool
}

// NewBaseEntity создаёт сущность с новым UUID
func NewBaseEntity(typ EntityType, pos, size mgl64.Vec3, eyeOffset float64) *BaseEntity {
	return &BaseEntity{
		id:        uuid.New(),
		typ:       typ,
		pos:       pos,
		size:      size,
		eyeOffset: eyeOffset,
	}
}

func (e *BaseEntity) ID() uuid.UUID        { return e.id }
func (e *BaseEntity) Type() EntityType     { return e.typ }
func (e *BaseEntity) Position() mgl64.Vec3 { return e.pos }
func (e *BaseEntity) EyeOffset() float64   { return e.eyeOffset }
func (e *BaseEntity) IsDead() bool         { return e.dead.Load() }

// SetPosition перемещает сущность
func (e *BaseEntity) SetPosition(p mgl64.Vec3) {
	e.pos = p
}

// Velocity возвращает скорость в блоках в секунду
func (e *BaseEntity) Velocity() mgl64.Vec3 {
	return e.velocity
}

// SetVelocity задаёт скорость в блоках в секунду
func (e *BaseEntity) SetVelocity(v mgl64.Vec3) {
	e.velocity = v
}

// SetRotation задаёт направление взгляда в градусах
func (e *BaseEntity) SetRotation(yaw, pitch float64) {
	e.yaw = yaw
	e.pitch = mgl64.Clamp(pitch, -90, 90)
}

// Rotation возвращает yaw и pitch в градусах
func (e *BaseEntity) Rotation() (yaw, pitch float64) {
	return e.yaw, e.pitch
}

// Forward возвращает вектор взгляда. При нулевых углах сущность смотрит на север (-Z),
// положительный pitch поднимает взгляд вверх.
func (e *BaseEntity) Forward() mgl64.Vec3 {
	return DirectionVector(e.yaw, e.pitch)
}

// DirectionVector переводит yaw и pitch (градусы) в единичный вектор
func DirectionVector(yaw, pitch float64) mgl64.Vec3 {
	yawRad, pitchRad := mgl64.DegToRad(yaw), mgl64.DegToRad(pitch)
	m := math.Cos(pitchRad)

	return mgl64.Vec3{
		-m * math.Sin(yawRad),
		math.Sin(pitchRad),
		-m * math.Cos(yawRad),
	}
}

// BoundingBox возвращает коллайдер с основанием в позиции сущности
func (e *BaseEntity) BoundingBox() physics.AABB {
	return physics.EntityBox(e.pos, e.size.X(), e.size.Y(), e.size.Z())
}

// Update сдвигает сущность на скорость, умноженную на delta
func (e *BaseEntity) Update(w *World, delta float64) {
	if e.velocity.ApproxEqual(mgl64.Vec3{}) {
		return
	}
	e.pos = e.pos.Add(e.velocity.Mul(delta))
}

// Kill помечает сущность к удалению на следующем тике
func (e *BaseEntity) Kill() {
	e.dead.Store(true)
}

// Размеры игрока
const (
	PlayerWidth     = 0.6
	PlayerHeight    = 1.8
	PlayerEyeOffset = 1.62
)

// Player сущность игрока
type Player struct {
	*BaseEntity
	Name string
}

// NewPlayer создаёт игрока в указанной позиции
func NewPlayer(name string, pos mgl64.Vec3) *Player {
	return &Player{
		BaseEntity: NewBaseEntity(EntityTypePlayer, pos, mgl64.Vec3{PlayerWidth, PlayerHeight, PlayerWidth}, PlayerEyeOffset),
		Name:       name,
	}
}

// NewProbe создаёт зонд без размера: глаза в самой позиции, взгляд по направлению dir
func NewProbe(pos, dir mgl64.Vec3) *Probe {
	return &Probe{
		BaseEntity: NewBaseEntity(EntityTypeProbe, pos, mgl64.Vec3{}, 0),
		dir:        dir.Normalize(),
	}
}

// Probe точечная сущность для одиночных лучей (отладочный API).
// В список сущностей мира не добавляется.
type Probe struct {
	*BaseEntity
	dir mgl64.Vec3
}

// Forward возвращает заданное направление
func (p *Probe) Forward() mgl64.Vec3 {
	return p.dir
}
