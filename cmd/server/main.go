package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-engine/internal/api"
	"github.com/annel0/voxel-engine/internal/app"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/observability"
	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block/implementations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.LogDir = cfg.Logging.Dir
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	logging.SetDefaultLevel(logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(cfg *config.Config) error {
	logging.Info("🎮 Запуск сервера мира %q", cfg.World.Name)
	worldLog := logging.GetWorldLogger()
	defer logging.GetLoggerManager().CloseAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Телеметрия ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("инициализация телеметрии: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Error("Ошибка остановки телеметрии: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// === Содержимое и хранилище ===
	content, err := implementations.NewContent()
	if err != nil {
		return fmt.Errorf("регистрация блоков: %w", err)
	}
	logging.Debug("Зарегистрировано блоков: %d, каналов состояний: %d",
		content.Registry.Len(), len(content.States.Channels()))

	var (
		store   *storage.ChunkStorage
		loader  world.Loader
		players storage.PlayerRepo = storage.NewMemoryPlayerRepo()
	)
	if cfg.Storage.Enabled {
		store, err = storage.NewChunkStorage(cfg.Storage.DataPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error("Ошибка закрытия хранилища: %v", err)
			}
		}()
		store.SetLogger(logging.GetStorageLogger())
		loader, players = store, store
		logging.Info("💾 Хранилище: %s", store.Path())
	}

	// === События ===
	bus := eventbus.NewMemoryBus(cfg.Events.Buffer)
	defer bus.Close()
	eventbus.RegisterMetrics(registry, bus)
	recent, err := eventbus.NewRecorder(bus, cfg.Events.History, eventbus.Filter{})
	if err != nil {
		return fmt.Errorf("журнал событий: %w", err)
	}
	if cfg.Events.Log {
		if _, err := eventbus.StartLoggingListener(bus, logging.GetComponentLogger("events")); err != nil {
			return fmt.Errorf("логирование событий: %w", err)
		}
	}

	// === Мир ===
	provider := world.NewMemoryProvider(loader, true)
	provider.SetLogger(worldLog)

	w := world.New(content.Registry, content.States, world.Options{
		Name:       cfg.World.Name,
		Provider:   provider,
		Generator:  world.NewPerlinGenerator(cfg.World.Seed, cfg.World.BaseHeight),
		Logger:     worldLog,
		Metrics:    world.NewMetrics(registry, "voxel"),
		SkyCeiling: cfg.World.SkyCeiling,
	})

	runner := app.NewRunner(w, app.Options{
		TickInterval:     cfg.World.TickInterval(),
		AutosaveInterval: cfg.Storage.AutosaveInterval(),
		Storage:          store,
		Players:          players,
		Events:           bus,
		Logger:           worldLog,
	})
	if _, err := runner.RestoreMeta(); err != nil {
		return fmt.Errorf("чтение параметров мира: %w", err)
	}
	runner.PreGenerate(cfg.World.SpawnRadius)

	// === Отладочный API ===
	var saver api.Saver
	if store != nil {
		saver = runner
	}
	rest := api.NewRestServer(api.Config{
		Port:     fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		World:    w,
		Players:  players,
		Saver:    saver,
		Events:   bus,
		Recent:   recent,
		Registry: registry,
		Logger:   logging.GetServerLogger(),
	})
	rest.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rest.Stop(shutdownCtx); err != nil {
			logging.Error("❌ Ошибка остановки REST API: %v", err)
		}
	}()

	logging.Info("✅ Мир запущен, сид %d", w.Seed())
	return runner.Run(ctx)
}
