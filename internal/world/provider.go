package world

import (
	"sync"

	"github.com/annel0/voxel-engine/internal/logging"
)

// ChunkProvider управляет резидентными чанками мира
type ChunkProvider interface {
	// Get возвращает загруженный чанк или nil; никогда не создаёт чанк
	Get(w *World, c ChunkCoord) *Chunk
	// Create создаёт (загружает или генерирует) чанк и делает его резидентным
	Create(w *World, c ChunkCoord) *Chunk
	// AddChunk регистрирует готовый чанк
	AddChunk(w *World, ch *Chunk)
	// Exists сообщает, загружен ли чанк
	Exists(w *World, c ChunkCoord) bool
	// GetOrCreate возвращает загруженный чанк или создаёт его
	GetOrCreate(w *World, c ChunkCoord) *Chunk
	// Chunks возвращает снимок резидентных чанков
	Chunks() []*Chunk
}

// Loader источник сохранённых чанков (обычно хранилище на диске)
type Loader interface {
	// LoadChunk возвращает сохранённый чанк или nil, если его нет
	LoadChunk(w *World, c ChunkCoord) (*Chunk, error)
}

// MemoryProvider хранит чанки в памяти. Отсутствующий чанк сначала ищется
// в Loader, затем генерируется генератором мира.
type MemoryProvider struct {
	mu       sync.RWMutex
	chunks   map[ChunkCoord]*Chunk
	loader   Loader
	populate bool
	logger   *logging.Logger
}

// NewMemoryProvider создаёт провайдер. loader может быть nil;
// populate=false оставляет новые чанки пустыми.
func NewMemoryProvider(loader Loader, populate bool) *MemoryProvider {
	return &MemoryProvider{
		chunks:   make(map[ChunkCoord]*Chunk),
		loader:   loader,
		populate: populate,
	}
}

// SetLogger задаёт логгер провайдера
func (p *MemoryProvider) SetLogger(l *logging.Logger) {
	p.logger = l
}

// Get возвращает загруженный чанк или nil
func (p *MemoryProvider) Get(w *World, c ChunkCoord) *Chunk {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chunks[c]
}

// Create загружает чанк из Loader или генерирует новый.
// Если чанк уже резидентен, возвращается существующий.
func (p *MemoryProvider) Create(w *World, c ChunkCoord) *Chunk {
	if ch := p.Get(w, c); ch != nil {
		return ch
	}

	// Загрузка и генерация идут без блокировки: они обращаются к соседям через Get
	ch, fromStorage := p.load(w, c)
	if ch == nil {
		ch = NewChunk(w, c)
		if p.populate && w.generator != nil {
			w.generator.Populate(ch)
		}
	}

	p.mu.Lock()
	if existing, ok := p.chunks[c]; ok {
		p.mu.Unlock()
		return existing
	}
	p.chunks[c] = ch
	p.mu.Unlock()

	p.logger.Debug("Чанк %s создан (из хранилища: %v)", c, fromStorage)
	return ch
}

func (p *MemoryProvider) load(w *World, c ChunkCoord) (*Chunk, bool) {
	if p.loader == nil {
		return nil, false
	}
	ch, err := p.loader.LoadChunk(w, c)
	if err != nil {
		p.logger.Error("Ошибка загрузки чанка %s: %v", c, err)
		return nil, false
	}
	return ch, ch != nil
}

// AddChunk регистрирует готовый чанк, заменяя существующий
func (p *MemoryProvider) AddChunk(w *World, ch *Chunk) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks[ch.Coords()] = ch
}

// Exists сообщает, загружен ли чанк
func (p *MemoryProvider) Exists(w *World, c ChunkCoord) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.chunks[c]
	return ok
}

// GetOrCreate возвращает загруженный чанк или создаёт его
func (p *MemoryProvider) GetOrCreate(w *World, c ChunkCoord) *Chunk {
	if ch := p.Get(w, c); ch != nil {
		return ch
	}
	return p.Create(w, c)
}

// Chunks возвращает снимок резидентных чанков
func (p *MemoryProvider) Chunks() []*Chunk {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Chunk, 0, len(p.chunks))
	for _, ch := range p.chunks {
		out = append(out, ch)
	}
	return out
}

// Remove выгружает чанк из памяти
func (p *MemoryProvider) Remove(c ChunkCoord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.chunks, c)
}

// Len возвращает число резидентных чанков
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.chunks)
}
