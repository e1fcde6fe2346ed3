package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Bot Admin API

Management surface over independently running trading bots.

## Auth

All /api/bots/* routes require a Bearer token. Health, docs, and the
webhook callbacks are public (webhooks carry their own source-specific
signature or token).

## Routes

- GET  /api/health
- GET  /api/bots
- GET  /api/bots/{id}
- POST /api/bots/{id}/start
- POST /api/bots/{id}/stop
- GET  /api/bots/{id}/signals
- GET  /api/bots/{id}/positions
- GET  /api/webhooks/events
- POST /api/webhooks/binance        (X-Binance-Signature header)
- POST /api/webhooks/telegram       (?token=...)
- POST /api/webhooks/trading-view   (?key=...)
- GET  /swagger/index.html

## Envelope

Responses use {"success": true, "data": ...} on success and
{"success": false, "error": "..."} on failure.
`)
	})
}
