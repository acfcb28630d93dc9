package block

import (
	"errors"
	"fmt"
)

// ID плотный числовой идентификатор типа блока (ключ хранения в чанке)
type ID uint16

// AirID зарезервированный идентификатор воздуха
const AirID ID = 0

// AirName строковый идентификатор воздуха
const AirName = "air"

var (
	// ErrDuplicateID строковый ключ уже занят
	ErrDuplicateID = errors.New("block: duplicate id")
	// ErrRegistryClosed регистрация после закрытия реестра
	ErrRegistryClosed = errors.New("block: registry closed")
	// ErrUnknownID плотный идентификатор вне зарегистрированного диапазона
	ErrUnknownID = errors.New("block: unknown dense id")
)

// Registry реестр типов блоков. Заполняется один раз при старте и
// после Close доступен только на чтение без синхронизации.
type Registry struct {
	byName map[string]*Type
	byID   []*Type
	air    *Type
	closed bool
}

// NewRegistry создаёт реестр; воздух регистрируется автоматически и получает ID 0
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Type),
	}
	r.air = &Type{
		Name:     AirName,
		Behavior: AirBehavior{},
	}
	r.MustRegister(r.air)
	return r
}

// Register добавляет тип блока и назначает ему следующий плотный ID
func (r *Registry) Register(t *Type) error {
	if r.closed {
		return fmt.Errorf("%w: %q", ErrRegistryClosed, t.Name)
	}
	if existing, ok := r.byName[t.Name]; ok {
		return fmt.Errorf("%w: %q уже используется блоком #%d", ErrDuplicateID, t.Name, existing.id)
	}
	if len(r.byID) > int(^ID(0)) {
		return fmt.Errorf("block: реестр переполнен при добавлении %q", t.Name)
	}
	if t.Behavior == nil {
		t.Behavior = BaseBehavior{}
	}

	t.id = ID(len(r.byID))
	r.byName[t.Name] = t
	r.byID = append(r.byID, t)
	return nil
}

// MustRegister как Register, но паникует при ошибке конфигурации
func (r *Registry) MustRegister(t *Type) *Type {
	if err := r.Register(t); err != nil {
		panic(err)
	}
	return t
}

// Close запрещает дальнейшую регистрацию
func (r *Registry) Close() {
	r.closed = true
}

// Closed сообщает, закрыт ли реестр
func (r *Registry) Closed() bool {
	return r.closed
}

// Air возвращает тип воздуха
func (r *Registry) Air() *Type {
	return r.air
}

// Get ищет тип по строковому ключу. Неизвестный ключ (данные извне) даёт воздух.
func (r *Registry) Get(name string) *Type {
	if t, ok := r.byName[name]; ok {
		return t
	}
	return r.air
}

// Lookup ищет тип по строковому ключу и сообщает, найден ли он
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// GetByID возвращает тип по плотному ID. ID вне диапазона означает
// рассинхронизацию хранилища и реестра.
func (r *Registry) GetByID(id ID) (*Type, error) {
	if int(id) >= len(r.byID) {
		return nil, fmt.Errorf("%w: %d (зарегистрировано %d)", ErrUnknownID, id, len(r.byID))
	}
	return r.byID[id], nil
}

// MustGetByID как GetByID, но паникует на нарушении инварианта
func (r *Registry) MustGetByID(id ID) *Type {
	t, err := r.GetByID(id)
	if err != nil {
		panic(err)
	}
	return t
}

// Len возвращает количество зарегистрированных типов (включая воздух)
func (r *Registry) Len() int {
	return len(r.byID)
}

// All возвращает типы в порядке плотных ID
func (r *Registry) All() []*Type {
	out := make([]*Type, len(r.byID))
	copy(out, r.byID)
	return out
}
