package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/middleware"
	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Saver сохраняет мир по запросу
type Saver interface {
	Save(ctx context.Context) (int, error)
}

// RestServer отладочный REST API поверх мира
type RestServer struct {
	router     *gin.Engine
	world      *world.World
	players    storage.PlayerRepo
	saver      Saver
	events     eventbus.EventBus
	recorder   *eventbus.Recorder
	port       string
	metrics    *ServerMetrics
	logger     *logging.Logger
	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string               // адрес, например ":8088"
	World    *world.World         // обслуживаемый мир
	Players  storage.PlayerRepo   // состояние игроков между сессиями; nil - в памяти
	Saver    Saver                // nil - сохранение недоступно
	Events   eventbus.EventBus    // nil - события не публикуются
	Recent   *eventbus.Recorder   // последние события для /api/events
	Registry *prometheus.Registry // реестр метрик для /metrics; nil - собственный
	Logger   *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Players == nil {
		config.Players = storage.NewMemoryPlayerRepo()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("voxel_debug_api"))
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("debug_api", config.Registry)
	router.Use(promMw.Handler())
	middleware.RegisterMetricsEndpoint(router, config.Registry)

	server := &RestServer{
		router:   router,
		world:    config.World,
		players:  config.Players,
		saver:    config.Saver,
		events:   config.Events,
		recorder: config.Recent,
		port:     config.Port,
		metrics:  NewServerMetrics(),
		logger:   config.Logger,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/world", rs.handleWorld)
		api.GET("/stats", rs.handleStats)

		api.GET("/block/:x/:y/:z", rs.handleGetBlock)
		api.PUT("/block/:x/:y/:z", rs.handlePlaceBlock)

		api.GET("/chunk/:cx/:cy/:cz", rs.handleGetChunk)
		api.POST("/chunk/:cx/:cy/:cz/load", rs.handleLoadChunk)

		api.POST("/raycast", rs.handleRaycast)

		api.GET("/entities", rs.handleEntities)
		api.POST("/players", rs.handleJoin)
		api.DELETE("/players/:name", rs.handleLeave)

		api.POST("/save", rs.handleSave)
		api.GET("/events", rs.handleEvents)
	}
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, GenericResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает HTTP сервер в отдельной горутине
func (rs *RestServer) Start() {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.logger.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()

	rs.logger.Info("✅ Отладочный REST API запущен на http://localhost%s", rs.port)
}

// Stop останавливает HTTP сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	return rs.httpServer.Shutdown(ctx)
}

// handleHealth возвращает статус сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleSave сохраняет мир
func (rs *RestServer) handleSave(c *gin.Context) {
	if rs.saver == nil {
		respond(c, http.StatusServiceUnavailable, "Хранилище выключено", nil)
		return
	}
	n, err := rs.saver.Save(c.Request.Context())
	if err != nil {
		rs.logger.Error("Ошибка сохранения мира: %v", err)
		respond(c, http.StatusInternalServerError, "Ошибка сохранения мира", nil)
		return
	}
	respond(c, http.StatusOK, "Мир сохранён", gin.H{"chunks": n})
}
