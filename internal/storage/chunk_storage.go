package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrNotReady хранилище закрыто
var ErrNotReady = errors.New("storage: хранилище не готово")

const (
	chunkPrefix  = "chunk:"
	playerPrefix = "player:"
	metaKey      = "meta:world"
)

// WorldMeta общие параметры сохранённого мира
type WorldMeta struct {
	Name  string `json:"name"`
	Seed  int64  `json:"seed"`
	Ticks uint64 `json:"ticks"`
}

// ChunkStorage хранилище чанков в BadgerDB. Записи сжимаются zstd.
// Реализует world.Loader и PlayerRepo.
type ChunkStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  *logging.Logger
}

var _ world.Loader = (*ChunkStorage)(nil)

// NewChunkStorage открывает хранилище в каталоге dataPath/world
func NewChunkStorage(dataPath string) (*ChunkStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("создание zstd кодировщика: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("создание zstd декодера: %w", err)
	}

	return &ChunkStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// SetLogger задаёт логгер хранилища
func (s *ChunkStorage) SetLogger(l *logging.Logger) {
	s.logger = l
}

// Path возвращает каталог базы
func (s *ChunkStorage) Path() string {
	return s.dbPath
}

// Close закрывает хранилище данных
func (s *ChunkStorage) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.decoder.Close()
	s.encoder.Close()
	return s.db.Close()
}

func chunkKey(c world.ChunkCoord) []byte {
	return []byte(fmt.Sprintf("%s%d:%d:%d", chunkPrefix, c.X, c.Y, c.Z))
}

// SaveChunk сохраняет чанк целиком. Вызывается под блокировкой мира.
func (s *ChunkStorage) SaveChunk(ch *world.Chunk) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	data, err := s.encode(ch)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(ch.Coords()), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

func (s *ChunkStorage) encode(ch *world.Chunk) ([]byte, error) {
	raw, err := encodeChunk(ch)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации чанка %s: %w", ch.Coords(), err)
	}
	return s.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// SaveAll сохраняет все загруженные чанки мира одним пакетом.
// Вызывается под блокировкой мира. Возвращает число записанных чанков.
func (s *ChunkStorage) SaveAll(w *world.World) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return 0, ErrNotReady
	}

	chunks := w.Provider().Chunks()
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, ch := range chunks {
		data, err := s.encode(ch)
		if err != nil {
			return 0, err
		}
		if err := wb.Set(chunkKey(ch.Coords()), data); err != nil {
			return 0, fmt.Errorf("ошибка записи чанка %s: %w", ch.Coords(), err)
		}
	}

	meta, err := json.Marshal(WorldMeta{Name: w.Name(), Seed: w.Seed(), Ticks: w.Ticks()})
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации мира: %w", err)
	}
	if err := wb.Set([]byte(metaKey), meta); err != nil {
		return 0, fmt.Errorf("ошибка записи параметров мира: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	s.logger.Debug("Сохранено чанков: %d", len(chunks))
	return len(chunks), nil
}

// LoadChunk загружает чанк; (nil, nil), если он не сохранялся
func (s *ChunkStorage) LoadChunk(w *world.World, c world.ChunkCoord) (*world.Chunk, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(c))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}

	ch, err := decodeChunk(w, raw)
	if err != nil {
		return nil, fmt.Errorf("чанк %s: %w", c, err)
	}
	if ch.Coords() != c {
		return nil, fmt.Errorf("%w: под ключом %s лежит чанк %s", ErrCorruptChunk, c, ch.Coords())
	}
	return ch, nil
}

// DeleteChunk удаляет сохранённый чанк
func (s *ChunkStorage) DeleteChunk(c world.ChunkCoord) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chunkKey(c))
	})
}

// StoredChunks возвращает координаты всех сохранённых чанков
func (s *ChunkStorage) StoredChunks() ([]world.ChunkCoord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrNotReady
	}

	var coords []world.ChunkCoord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(chunkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var c world.ChunkCoord
			key := string(it.Item().Key())
			if _, err := fmt.Sscanf(key, chunkPrefix+"%d:%d:%d", &c.X, &c.Y, &c.Z); err != nil {
				s.logger.Warn("Ошибка парсинга ключа '%s': %v", key, err)
				continue
			}
			coords = append(coords, c)
		}
		return nil
	})
	return coords, err
}

// LoadWorldMeta читает параметры мира; found=false для нового мира
func (s *ChunkStorage) LoadWorldMeta() (meta WorldMeta, found bool, err error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return meta, false, ErrNotReady
	}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return meta, false, nil
	}
	if err != nil {
		return meta, false, fmt.Errorf("ошибка чтения параметров мира: %w", err)
	}
	return meta, true, nil
}
