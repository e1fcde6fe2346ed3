package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Version string
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/api/health", h.health)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.Version})
}
