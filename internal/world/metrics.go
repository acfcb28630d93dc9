package world

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики мира. Нулевой указатель допустим: все методы ничего не делают.
//
// Метрики:
// * world_tick_duration_seconds: histogram
// * world_entities: gauge
// * world_chunks_loaded: gauge
// * world_block_updates_total: counter (каскады обновлений)
// * world_raycasts_total{result}: counter
type Metrics struct {
	tickDuration prometheus.Histogram
	entities     prometheus.Gauge
	chunks       prometheus.Gauge
	blockUpdates prometheus.Counter
	raycasts     *prometheus.CounterVec
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "world_tick_duration_seconds",
			Help:      "Длительность одного тика мира.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "world_entities",
			Help:      "Количество живых сущностей.",
		}),
		chunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "world_chunks_loaded",
			Help:      "Количество резидентных чанков.",
		}),
		blockUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "world_block_updates_total",
			Help:      "Количество каскадов обновления блоков.",
		}),
		raycasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "world_raycasts_total",
			Help:      "Количество лучей по типу результата.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.tickDuration, m.entities, m.chunks, m.blockUpdates, m.raycasts)
	return m
}

func (m *Metrics) observeTick(d time.Duration, entities, chunks int) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
	m.entities.Set(float64(entities))
	m.chunks.Set(float64(chunks))
}

func (m *Metrics) incBlockUpdates() {
	if m == nil {
		return
	}
	m.blockUpdates.Inc()
}

func (m *Metrics) incRaycast(result CollisionType) {
	if m == nil {
		return
	}
	m.raycasts.WithLabelValues(result.String()).Inc()
}
