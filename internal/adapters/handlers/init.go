package handlers

import (
	"net/http"

	"github.com/iwtcode/benchService/internal/config"
	"github.com/iwtcode/benchService/internal/interfaces"
	"github.com/iwtcode/benchService/internal/middleware/logging"
	"github.com/iwtcode/benchService/internal/middleware/swagger"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.Default()

	// Swagger
	swagger.Setup(router, swagCfg)

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		runs := v1.Group("/runs")
		{
			runs.POST("", h.StartRun)
			runs.GET("", h.GetRuns)
			runs.GET("/:id/steps", h.GetRunSteps)
			runs.POST("/abort", h.AbortRun)
		}
	}

	return router
}
