package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"botadmin/internal/auth"
	"botadmin/internal/bots"
	"botadmin/internal/config"
	cronrunner "botadmin/internal/cron"
	"botadmin/internal/db"
	"botadmin/internal/handler"
	"botadmin/internal/logger"
	"botadmin/internal/repository"
	gormrepository "botadmin/internal/repository/gorm"

	_ "botadmin/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("BOTADMIN_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("BOTADMIN_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	registry, err := bots.LoadRegistry(cfg.Bots.RegistryPath, log)
	if err != nil {
		log.Fatal("registry load failed", zap.Error(err))
	}
	log.Info("registry ready", zap.Int("bots", registry.Len()))

	orchestrator := bots.New(
		registry,
		bots.ShellRunner{},
		bots.PgrepInspector{},
		cfg.Bots.RunTimeout,
		log,
	)

	var eventStore repository.EventRepository
	var dbConn *db.DB
	if cfg.DB.DSN != "" {
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			log.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)
		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			log.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			log.Fatal("auto-migrate failed", zap.Error(err))
		}
		eventStore = gormrepository.New(dbConn.Gorm)
	} else {
		log.Info("no db dsn configured, webhook ingestion is log-only")
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	handler.RegisterFallbacks(engine, log)
	engine.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	engine.Use(logger.RequestLogger(log))

	tokens := auth.Tokens{Secret: []byte(cfg.Auth.Secret), TokenTTL: cfg.Auth.TokenTTL}
	engine.Use(auth.Middleware(tokens, cfg.Auth.PublicPaths, log))

	healthHandler := &handler.HealthHandler{Version: cfg.App.Version}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	botHandler := &handler.BotHandler{Orchestrator: orchestrator, Logger: log}
	botHandler.Register(engine)
	webhookHandler := &handler.WebhookHandler{
		Config: cfg.Webhooks,
		Events: eventStore,
		Logger: log,
	}
	webhookHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if eventStore != nil {
		cronRunner := cronrunner.New(log, ctx)
		maxAge := cfg.Retention.MaxAge
		_, err := cronRunner.Add(cfg.Retention.Schedule, func(ctx context.Context) {
			n, err := eventStore.DeleteWebhookEventsBefore(ctx, time.Now().UTC().Add(-maxAge))
			if err != nil {
				log.Warn("webhook event purge failed", zap.Error(err))
				return
			}
			if n > 0 {
				log.Info("purged webhook events", zap.Int64("count", n))
			}
		})
		if err != nil {
			log.Warn("cron register event purge failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
