package app

import (
	"context"
	"time"

	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/observability"
	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/world"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTickInterval длительность тика по умолчанию (20 тиков в секунду)
const DefaultTickInterval = 50 * time.Millisecond

// Options параметры цикла мира
type Options struct {
	TickInterval     time.Duration
	AutosaveInterval time.Duration         // 0 - только при остановке
	Storage          *storage.ChunkStorage // nil - чанки не сохраняются
	Players          storage.PlayerRepo    // nil - игроки не сохраняются
	Events           eventbus.EventBus     // nil - события не публикуются
	Logger           *logging.Logger
	Tracer           trace.Tracer
}

// Runner ведёт тики мира и периодическое сохранение
type Runner struct {
	world *world.World
	opts  Options
}

// NewRunner создаёт цикл мира
func NewRunner(w *world.World, opts Options) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Tracer == nil {
		opts.Tracer = observability.Tracer()
	}
	return &Runner{world: w, opts: opts}
}

// World возвращает обслуживаемый мир
func (r *Runner) World() *world.World {
	return r.world
}

// Run крутит тики до отмены ctx, затем сохраняет мир
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	var autosave <-chan time.Time
	if r.opts.AutosaveInterval > 0 {
		t := time.NewTicker(r.opts.AutosaveInterval)
		defer t.Stop()
		autosave = t.C
	}

	r.opts.Logger.Info("Цикл мира запущен: тик %s, автосохранение %s", r.opts.TickInterval, r.opts.AutosaveInterval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			n, err := r.Save(context.Background())
			if err != nil {
				return err
			}
			r.opts.Logger.Info("Цикл мира остановлен, сохранено чанков: %d", n)
			return nil
		case now := <-ticker.C:
			r.Tick(ctx, now.Sub(last).Seconds())
			last = now
		case <-autosave:
			if n, err := r.Save(ctx); err != nil {
				r.opts.Logger.Error("Ошибка автосохранения: %v", err)
			} else {
				r.opts.Logger.Debug("Автосохранение: %d чанков", n)
			}
		}
	}
}

// Tick выполняет один тик мира под его блокировкой
func (r *Runner) Tick(ctx context.Context, delta float64) {
	_, span := r.opts.Tracer.Start(ctx, "world.tick", trace.WithAttributes(attribute.Float64("delta", delta)))
	defer span.End()

	var ticks uint64
	r.world.Locked(func() {
		r.world.Update(delta)
		ticks = r.world.Ticks()
	})
	span.SetAttributes(attribute.Int64("tick", int64(ticks)))
}

// Save сохраняет загруженные чанки и состояние живых игроков.
// Возвращает число сохранённых чанков.
func (r *Runner) Save(ctx context.Context) (int, error) {
	ctx, span := r.opts.Tracer.Start(ctx, "world.save")
	defer span.End()

	var n int
	var err error
	players := make(map[string]storage.PlayerState)
	r.world.Locked(func() {
		if r.opts.Storage != nil {
			n, err = r.opts.Storage.SaveAll(r.world)
		}
		for _, e := range r.world.Entities() {
			if p, ok := e.(*world.Player); ok && !p.IsDead() {
				players[p.Name] = storage.PlayerStateOf(p)
			}
		}
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	if r.opts.Players != nil {
		if err := r.opts.Players.BatchSave(ctx, players); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return n, err
		}
	}
	span.SetAttributes(attribute.Int("chunks", n), attribute.Int("players", len(players)))
	r.publishSaved(ctx, n, len(players))
	return n, nil
}

// RestoreMeta восстанавливает сид сохранённого мира. Вызывается до генерации чанков.
func (r *Runner) RestoreMeta() (bool, error) {
	if r.opts.Storage == nil {
		return false, nil
	}
	meta, found, err := r.opts.Storage.LoadWorldMeta()
	if err != nil || !found {
		return false, err
	}
	r.world.Locked(func() { r.world.SetSeed(meta.Seed) })
	r.opts.Logger.Info("Мир %q восстановлен: сид %d, тиков %d", meta.Name, meta.Seed, meta.Ticks)
	return true, nil
}

// PreGenerate загружает чанки вокруг начала координат в радиусе radius чанков,
// по вертикали от y=0 до поверхности. Возвращает число загруженных чанков.
func (r *Runner) PreGenerate(radius int) int {
	count := 0
	r.world.Locked(func() {
		gen := r.world.Generator()
		for cx := -radius; cx <= radius; cx++ {
			for cz := -radius; cz <= radius; cz++ {
				top := 0
				if gen != nil {
					top = columnTop(gen, cx, cz)
				}
				for cy := 0; cy <= top>>4; cy++ {
					if r.world.LoadChunk(world.ChunkCoord{X: cx, Y: cy, Z: cz}, true) != nil {
						count++
					}
				}
			}
		}
	})
	r.opts.Logger.Info("Подготовлено чанков вокруг спавна: %d", count)
	return count
}

// columnTop наибольшая высота поверхности над колонной чанков
func columnTop(gen world.Generator, cx, cz int) int {
	seed := gen.Seed()
	top := 0
	for x := 0; x < world.ChunkSize; x++ {
		for z := 0; z < world.ChunkSize; z++ {
			if h := gen.SurfaceHeight(cx*world.ChunkSize+x, cz*world.ChunkSize+z, seed); h > top {
				top = h
			}
		}
	}
	return top
}

// publishSaved сообщает шине о сохранении мира
func (r *Runner) publishSaved(ctx context.Context, chunks, players int) {
	if r.opts.Events == nil {
		return
	}
	ev, err := eventbus.NewEnvelope("runner", eventbus.EventWorldSaved, eventbus.PriorityLow, map[string]int{
		"chunks":  chunks,
		"players": players,
	})
	if err == nil {
		err = r.opts.Events.Publish(ctx, ev)
	}
	if err != nil {
		r.opts.Logger.Warn("Событие сохранения не опубликовано: %v", err)
	}
}
