package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"botadmin/internal/bots"
)

// Orchestrator is the surface the bot endpoints need from the bot core.
type Orchestrator interface {
	List(ctx context.Context) []bots.Summary
	Get(ctx context.Context, id string) (bots.Detail, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Positions(id string) ([]bots.Position, error)
	Signals(id string) ([]bots.Signal, error)
}

type BotHandler struct {
	Orchestrator Orchestrator
	Logger       *zap.Logger
}

func (h *BotHandler) Register(r *gin.Engine) {
	group := r.Group("/api/bots")
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("/:id/start", h.start)
	group.POST("/:id/stop", h.stop)
	group.GET("/:id/signals", h.signals)
	group.GET("/:id/positions", h.positions)
}

// @Summary List bots with derived status
// @Tags bots
// @Success 200 {object} apiResponse
// @Router /api/bots [get]
func (h *BotHandler) list(c *gin.Context) {
	Ok(c, h.Orchestrator.List(c.Request.Context()))
}

// @Summary Bot detail
// @Tags bots
// @Param id path string true "bot id"
// @Success 200 {object} apiResponse
// @Router /api/bots/{id} [get]
func (h *BotHandler) get(c *gin.Context) {
	detail, err := h.Orchestrator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Translate(c, h.Logger, err)
		return
	}
	Ok(c, detail)
}

// @Summary Start a bot
// @Tags bots
// @Param id path string true "bot id"
// @Success 200 {object} apiResponse
// @Router /api/bots/{id}/start [post]
func (h *BotHandler) start(c *gin.Context) {
	id := c.Param("id")
	if err := h.Orchestrator.Start(c.Request.Context(), id); err != nil {
		Translate(c, h.Logger, err)
		return
	}
	OkMessage(c, "bot "+id+" started", gin.H{"status": bots.StatusActive})
}

// @Summary Stop a bot
// @Tags bots
// @Param id path string true "bot id"
// @Success 200 {object} apiResponse
// @Router /api/bots/{id}/stop [post]
func (h *BotHandler) stop(c *gin.Context) {
	id := c.Param("id")
	if err := h.Orchestrator.Stop(c.Request.Context(), id); err != nil {
		Translate(c, h.Logger, err)
		return
	}
	OkMessage(c, "bot "+id+" stopped", gin.H{"status": bots.StatusInactive})
}

// @Summary Recent signals for a bot
// @Tags bots
// @Param id path string true "bot id"
// @Success 200 {object} apiResponse
// @Router /api/bots/{id}/signals [get]
func (h *BotHandler) signals(c *gin.Context) {
	signals, err := h.Orchestrator.Signals(c.Param("id"))
	if err != nil {
		Translate(c, h.Logger, err)
		return
	}
	Ok(c, signals)
}

// @Summary Open positions for a bot
// @Tags bots
// @Param id path string true "bot id"
// @Success 200 {object} apiResponse
// @Router /api/bots/{id}/positions [get]
func (h *BotHandler) positions(c *gin.Context) {
	positions, err := h.Orchestrator.Positions(c.Param("id"))
	if err != nil {
		Translate(c, h.Logger, err)
		return
	}
	Ok(c, positions)
}
