package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"botadmin/internal/config"
	"botadmin/internal/models"
	"botadmin/internal/repository"
	"botadmin/internal/webhook"
)

// WebhookHandler ingests signed external callbacks. Verification depends on
// the source: Binance signs the body, Telegram and TradingView pass a shared
// token. Verified payloads are logged and, when a store is configured,
// persisted best-effort.
type WebhookHandler struct {
	Config config.WebhooksConfig
	Events repository.EventRepository // nil disables persistence
	Logger *zap.Logger
}

func (h *WebhookHandler) Register(r *gin.Engine) {
	group := r.Group("/api/webhooks")
	group.POST("/binance", h.binance)
	group.POST("/telegram", h.telegram)
	group.POST("/trading-view", h.tradingView)
	group.GET("/events", h.listEvents)
}

// @Summary Binance event callback
// @Tags webhooks
// @Success 200 {object} apiResponse
// @Router /api/webhooks/binance [post]
func (h *WebhookHandler) binance(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		Fail(c, http.StatusBadRequest, "unreadable body")
		return
	}

	if h.Config.BinanceSecret != "" {
		verifier := webhook.SignatureVerifier{Secret: h.Config.BinanceSecret}
		if err := verifier.Verify(body, c.GetHeader("X-Binance-Signature")); err != nil {
			h.Logger.Warn("binance webhook rejected", zap.String("remote_addr", c.ClientIP()))
			Fail(c, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	h.accept(c, "binance", body, jsonField(body, "event_type"))
}

// @Summary Telegram command callback
// @Tags webhooks
// @Success 200 {object} apiResponse
// @Router /api/webhooks/telegram [post]
func (h *WebhookHandler) telegram(c *gin.Context) {
	verifier := webhook.TokenVerifier{Secret: h.Config.TelegramToken}
	if err := verifier.Verify(c.Query("token")); err != nil {
		h.Logger.Warn("telegram webhook rejected", zap.String("remote_addr", c.ClientIP()))
		Fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		Fail(c, http.StatusBadRequest, "unreadable body")
		return
	}
	h.accept(c, "telegram", body, jsonPathField(body, "message", "text"))
}

// @Summary TradingView signal callback
// @Tags webhooks
// @Success 200 {object} apiResponse
// @Router /api/webhooks/trading-view [post]
func (h *WebhookHandler) tradingView(c *gin.Context) {
	verifier := webhook.TokenVerifier{Secret: h.Config.TradingViewKey}
	if err := verifier.Verify(c.Query("key")); err != nil {
		h.Logger.Warn("tradingview webhook rejected", zap.String("remote_addr", c.ClientIP()))
		Fail(c, http.StatusUnauthorized, "invalid key")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		Fail(c, http.StatusBadRequest, "unreadable body")
		return
	}
	h.accept(c, "trading-view", body, jsonPathField(body, "strategy", "action"))
}

// @Summary List received webhook events
// @Tags webhooks
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param source query string false "source filter"
// @Success 200 {object} apiResponse
// @Router /api/webhooks/events [get]
func (h *WebhookHandler) listEvents(c *gin.Context) {
	if h.Events == nil {
		Fail(c, http.StatusServiceUnavailable, "event store not configured")
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	var source *string
	if v := strings.TrimSpace(c.Query("source")); v != "" {
		source = &v
	}

	params := repository.ListWebhookEventsParams{Limit: limit, Offset: offset, Source: source}
	items, err := h.Events.ListWebhookEvents(c.Request.Context(), params)
	if err != nil {
		Translate(c, h.Logger, err)
		return
	}
	total, err := h.Events.CountWebhookEvents(c.Request.Context(), params)
	if err != nil {
		Translate(c, h.Logger, err)
		return
	}
	OkMeta(c, items, paginationMeta(limit, offset, total))
}

func (h *WebhookHandler) accept(c *gin.Context, source string, body []byte, event string) {
	h.Logger.Info("webhook processed",
		zap.String("source", source),
		zap.String("event", event),
		zap.String("remote_addr", c.ClientIP()),
	)

	if h.Events != nil {
		if !json.Valid(body) {
			body = nil
		}
		record := &models.WebhookEvent{
			Source:     source,
			Event:      event,
			Payload:    body,
			RemoteAddr: c.ClientIP(),
			ReceivedAt: time.Now().UTC(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.Events.InsertWebhookEvent(ctx, record); err != nil {
			// Persistence is an audit convenience: the callback still succeeds.
			h.Logger.Warn("webhook event not persisted", zap.String("source", source), zap.Error(err))
		}
	}

	OkMessage(c, "webhook processed", nil)
}

func jsonField(body []byte, key string) string {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func jsonPathField(body []byte, outer, inner string) string {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	nested, ok := data[outer].(map[string]any)
	if !ok {
		return ""
	}
	if v, ok := nested[inner].(string); ok {
		return v
	}
	return ""
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}
