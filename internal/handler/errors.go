package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"botadmin/internal/bots"
)

// Translate converts a typed failure into the response envelope. Internal
// detail (stderr, wrapped causes) is logged server-side, never returned.
func Translate(c *gin.Context, logger *zap.Logger, err error) {
	var procErr *bots.ProcessError
	switch {
	case errors.Is(err, bots.ErrNotFound):
		Fail(c, http.StatusNotFound, "bot not found")
	case errors.As(err, &procErr):
		logger.Error("external process failure",
			zap.String("path", c.Request.URL.Path),
			zap.String("op", procErr.Op),
			zap.String("reason", procErr.Reason),
			zap.String("stderr", procErr.Stderr),
		)
		Fail(c, http.StatusInternalServerError, "bot "+procErr.Op+" failed")
	default:
		logger.Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

// RegisterFallbacks installs envelope responses for requests that never
// reach a handler, plus a recovery handler that logs the panic value and
// returns a generic message.
func RegisterFallbacks(r *gin.Engine, logger *zap.Logger) {
	r.NoRoute(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "resource not found")
	})
	r.NoMethod(func(c *gin.Context) {
		Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		Fail(c, http.StatusInternalServerError, "internal server error")
	}))
}
