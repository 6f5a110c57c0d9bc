package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/iwtcode/benchService/internal/domain/models"
	apperrors "github.com/iwtcode/benchService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StartRun запускает прогон V-I развёртки.
// @Summary Запустить прогон развёртки
// @Description Загружает план развёртки и запускает прогон. Одновременно допускается один активный прогон.
// @Tags Run
// @Accept json
// @Produce json
// @Param input body models.StartRunRequest false "Параметры запуска (путь к файлу плана)"
// @Success 200 {object} models.StartRunResponse "Прогон запущен"
// @Failure 400 {object} models.ErrorResponse "Некорректный план развёртки"
// @Failure 409 {object} models.ErrorResponse "Прогон уже активен"
// @Failure 500 {object} models.ErrorResponse "Не удалось подключиться к приборам"
// @Router /runs [post]
func (h *Handler) StartRun(c *gin.Context) {
	var req models.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Attempting to start a sweep run", "plan_file", req.PlanFile)

	info, err := h.usecase.StartRun(req)
	if err != nil {
		var cfgErr *apperrors.ConfigurationError
		switch {
		case errors.Is(err, apperrors.ErrRunActive):
			h.Conflict(c, err)
		case errors.As(err, &cfgErr):
			h.BadRequest(c, err, "Invalid sweep plan")
		default:
			h.InternalError(c, err)
		}
		return
	}

	h.logger.Info("Sweep run started", "sessionID", info.SessionID)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "run": info})
}

// GetRuns возвращает список всех прогонов.
// @Summary Получить список прогонов
// @Description Возвращает сохраненные прогоны, свежие первыми.
// @Tags Run
// @Produce json
// @Success 200 {object} models.GetRunsResponse "Список прогонов"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /runs [get]
func (h *Handler) GetRuns(c *gin.Context) {
	runs, err := h.usecase.GetAllRuns()
	if err != nil {
		h.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(runs),
		"runs":   runs,
	})
}

// GetRunSteps возвращает строки результатов прогона.
// @Summary Получить строки результатов прогона
// @Description Возвращает точки развёртки прогона в порядке обхода.
// @Tags Run
// @Produce json
// @Param id path string true "ID сессии прогона"
// @Success 200 {object} models.GetStepsResponse "Строки результатов"
// @Failure 404 {object} models.ErrorResponse "Прогон не найден"
// @Router /runs/{id}/steps [get]
func (h *Handler) GetRunSteps(c *gin.Context) {
	sessionID := c.Param("id")

	steps, err := h.usecase.GetRunSteps(sessionID)
	if err != nil {
		h.NotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(steps),
		"steps":  steps,
	})
}

// AbortRun запрашивает останов активного прогона.
// @Summary Запросить останов активного прогона
// @Description Взводит липкий флаг останова; движок завершит текущий шаг и безопасно погасит приборы.
// @Tags Run
// @Produce json
// @Success 200 {object} models.MessageResponse "Останов запрошен"
// @Failure 404 {object} models.ErrorResponse "Нет активного прогона"
// @Router /runs/abort [post]
func (h *Handler) AbortRun(c *gin.Context) {
	if err := h.usecase.AbortRun(); err != nil {
		h.NotFound(c, err)
		return
	}

	h.logger.Warn("Abort requested via API")
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Abort requested",
	})
}
