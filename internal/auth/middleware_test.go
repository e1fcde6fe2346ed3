package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newAuthRouter(t *testing.T, tokens Tokens, publicPaths []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(tokens, publicPaths, zap.NewNop()))
	r.GET("/api/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/api/bots", func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no claims"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": claims.Subject, "role": claims.Role})
	})
	return r
}

func doRequest(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewarePublicPathBypassesAuth(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	r := newAuthRouter(t, tokens, []string{"/api/health"})

	w := doRequest(r, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", w.Code)
	}
}

func TestMiddlewareMissingHeader(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	r := newAuthRouter(t, tokens, nil)

	w := doRequest(r, "/api/bots", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("success=%v want false", body["success"])
	}
	if body["error"] != "authentication required" {
		t.Fatalf("error=%q", body["error"])
	}
}

func TestMiddlewareValidTokenAttachesClaims(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	raw, _, err := tokens.Issue("admin", "admin", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := newAuthRouter(t, tokens, nil)

	w := doRequest(r, "/api/bots", "Bearer "+raw)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["subject"] != "admin" || body["role"] != "admin" {
		t.Fatalf("claims=%v", body)
	}
}

func TestMiddlewareExpiredToken(t *testing.T) {
	expired := Tokens{Secret: []byte("test-secret"), TokenTTL: -time.Minute}
	raw, _, err := expired.Issue("admin", "admin", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	r := newAuthRouter(t, tokens, nil)

	w := doRequest(r, "/api/bots", "Bearer "+raw)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "token expired" {
		t.Fatalf("error=%q", body["error"])
	}
}

func TestMiddlewareMalformedAuthorization(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	r := newAuthRouter(t, tokens, nil)

	for _, header := range []string{"Bearer", "Basic abc", "garbage"} {
		w := doRequest(r, "/api/bots", header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header=%q status=%d want 401", header, w.Code)
		}
	}
}

func TestMiddlewareTamperedToken(t *testing.T) {
	other := Tokens{Secret: []byte("another-secret"), TokenTTL: time.Hour}
	raw, _, err := other.Issue("admin", "admin", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tokens := Tokens{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	r := newAuthRouter(t, tokens, nil)

	w := doRequest(r, "/api/bots", "Bearer "+raw)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid token" {
		t.Fatalf("error=%q", body["error"])
	}
}
