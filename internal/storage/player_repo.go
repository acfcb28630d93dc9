package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/voxel-engine/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrPlayerNotFound для игрока нет сохранённого состояния
var ErrPlayerNotFound = errors.New("storage: игрок не найден")

// PlayerState сохраняемое положение игрока между сессиями
type PlayerState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// PlayerStateOf снимает состояние с игрока
func PlayerStateOf(p *world.Player) PlayerState {
	pos := p.Position()
	yaw, pitch := p.Rotation()
	return PlayerState{X: pos.X(), Y: pos.Y(), Z: pos.Z(), Yaw: yaw, Pitch: pitch}
}

// Position возвращает позицию как вектор
func (s PlayerState) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.X, s.Y, s.Z}
}

// Apply переносит состояние на игрока
func (s PlayerState) Apply(p *world.Player) {
	p.SetPosition(s.Position())
	p.SetRotation(s.Yaw, s.Pitch)
}

// PlayerRepo определяет интерфейс для сохранения и загрузки состояния игроков.
// Ключ - имя игрока, а не ID сущности: ID меняется при каждом входе.
type PlayerRepo interface {
	// Save сохраняет состояние игрока
	Save(ctx context.Context, name string, s PlayerState) error

	// Load загружает состояние; found=false при первом входе
	Load(ctx context.Context, name string) (s PlayerState, found bool, err error)

	// Delete удаляет сохранённое состояние
	Delete(ctx context.Context, name string) error

	// BatchSave сохраняет состояние нескольких игроков (для автосохранения)
	BatchSave(ctx context.Context, states map[string]PlayerState) error
}

var (
	_ PlayerRepo = (*MemoryPlayerRepo)(nil)
	_ PlayerRepo = (*ChunkStorage)(nil)
)

func validatePlayerName(name string) error {
	if name == "" {
		return fmt.Errorf("недействительное имя игрока: %q", name)
	}
	return nil
}

// MemoryPlayerRepo реализует PlayerRepo в памяти.
// Используется, когда хранилище на диске выключено.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryPlayerRepo struct {
	mu   sync.RWMutex
	data map[string]PlayerState
}

// NewMemoryPlayerRepo создает новый репозиторий в памяти
func NewMemoryPlayerRepo() *MemoryPlayerRepo {
	return &MemoryPlayerRepo{
		data: make(map[string]PlayerState),
	}
}

// Save сохраняет состояние игрока в памяти
func (r *MemoryPlayerRepo) Save(ctx context.Context, name string, s PlayerState) error {
	if err := validatePlayerName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[name] = s
	return nil
}

// Load загружает состояние игрока из памяти
func (r *MemoryPlayerRepo) Load(ctx context.Context, name string) (PlayerState, bool, error) {
	if err := validatePlayerName(name); err != nil {
		return PlayerState{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return PlayerState{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.data[name]
	return s, exists, nil
}

// Delete удаляет сохраненное состояние игрока
func (r *MemoryPlayerRepo) Delete(ctx context.Context, name string) error {
	if err := validatePlayerName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[name]; !exists {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	delete(r.data, name)
	return nil
}

// BatchSave сохраняет состояние нескольких игроков
func (r *MemoryPlayerRepo) BatchSave(ctx context.Context, states map[string]PlayerState) error {
	if len(states) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for name := range states {
		if err := validatePlayerName(name); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, s := range states {
		r.data[name] = s
	}
	return nil
}

// Count возвращает количество сохраненных игроков
func (r *MemoryPlayerRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func playerKey(name string) []byte {
	return []byte(playerPrefix + name)
}

// Save сохраняет состояние игрока в BadgerDB
func (s *ChunkStorage) Save(ctx context.Context, name string, st PlayerState) error {
	return s.BatchSave(ctx, map[string]PlayerState{name: st})
}

// Load загружает состояние игрока из BadgerDB
func (s *ChunkStorage) Load(ctx context.Context, name string) (PlayerState, bool, error) {
	var st PlayerState
	if err := validatePlayerName(name); err != nil {
		return st, false, err
	}
	if err := ctx.Err(); err != nil {
		return st, false, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return st, false, ErrNotReady
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(playerKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &st)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return PlayerState{}, false, nil
	}
	if err != nil {
		return PlayerState{}, false, fmt.Errorf("ошибка чтения игрока %s: %w", name, err)
	}
	return st, true, nil
}

// Delete удаляет состояние игрока из BadgerDB
func (s *ChunkStorage) Delete(ctx context.Context, name string) error {
	if err := validatePlayerName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return ErrNotReady
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(playerKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
			}
			return err
		}
		return txn.Delete(playerKey(name))
	})
}

// BatchSave сохраняет состояние нескольких игроков одной транзакцией
func (s *ChunkStorage) BatchSave(ctx context.Context, states map[string]PlayerState) error {
	if len(states) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if !s.isReady {
		return ErrNotReady
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for name, st := range states {
			if err := validatePlayerName(name); err != nil {
				return err
			}
			data, err := json.Marshal(st)
			if err != nil {
				return fmt.Errorf("ошибка сериализации игрока %s: %w", name, err)
			}
			if err := txn.Set(playerKey(name), data); err != nil {
				return err
			}
		}
		return nil
	})
}
