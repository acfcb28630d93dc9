package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера мира.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Events    EventsConfig    `yaml:"events"`
}

type WorldConfig struct {
	Name        string `yaml:"name"`
	Seed        int64  `yaml:"seed"`
	BaseHeight  int    `yaml:"base_height"`   // Средняя высота поверхности в мировых координатах
	TickRate    int    `yaml:"tick_rate"`     // Тиков в секунду
	SpawnRadius int    `yaml:"spawn_radius"`  // Радиус прогрева чанков вокруг спавна (в чанках)
	SkyCeiling  int    `yaml:"sky_ceiling_y"` // Верхняя граница для CanBlockSeeSky
}

type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DataPath        string `yaml:"data_path"`
	AutosaveSeconds int    `yaml:"autosave_seconds"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP HTTP; пусто - OTEL_EXPORTER_OTLP_ENDPOINT или localhost:4318
}

// EventsConfig параметры шины событий мира
type EventsConfig struct {
	Buffer  int  `yaml:"buffer"`  // Ёмкость очереди рассылки
	History int  `yaml:"history"` // Сколько последних событий отдаёт /api/events
	Log     bool `yaml:"log"`     // Дублировать события в лог
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Name:        "world",
			Seed:        0,
			BaseHeight:  64,
			TickRate:    20,
			SpawnRadius: 2,
			SkyCeiling:  256,
		},
		Storage: StorageConfig{
			Enabled:         true,
			DataPath:        "data",
			AutosaveSeconds: 300,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "voxel-engine",
		},
		Events: EventsConfig{
			Buffer:  1024,
			History: 256,
		},
	}
}

// TickInterval возвращает длительность одного тика
func (w WorldConfig) TickInterval() time.Duration {
	if w.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(w.TickRate)
}

// AutosaveInterval возвращает период автосохранения; 0 означает «выключено»
func (s StorageConfig) AutosaveInterval() time.Duration {
	if s.AutosaveSeconds <= 0 {
		return 0
	}
	return time.Duration(s.AutosaveSeconds) * time.Second
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "VOXEL_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG; без него возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if seed := os.Getenv("VOXEL_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.World.Seed = v
		}
	}

	return cfg, nil
}
