package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Webhooks  WebhooksConfig  `mapstructure:"webhooks"`
	Bots      BotsConfig      `mapstructure:"bots"`
	DB        DBConfig        `mapstructure:"db"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type AppConfig struct {
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AuthConfig struct {
	// Secret signs and verifies bearer tokens. When empty, every protected
	// request is rejected with a server failure rather than silently allowed.
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// PublicPaths bypass authentication entirely. Matched exactly.
	PublicPaths []string `mapstructure:"public_paths"`
}

type WebhooksConfig struct {
	BinanceSecret  string `mapstructure:"binance_secret"`
	TelegramToken  string `mapstructure:"telegram_token"`
	TradingViewKey string `mapstructure:"tradingview_key"`
}

type BotsConfig struct {
	RegistryPath string        `mapstructure:"registry_path"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type RetentionConfig struct {
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOTADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.http_addr", ":5000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.public_paths", []string{
		"/api/health",
		"/docs",
		"/api/webhooks/binance",
		"/api/webhooks/telegram",
		"/api/webhooks/trading-view",
	})
	v.SetDefault("webhooks.binance_secret", "")
	v.SetDefault("webhooks.telegram_token", "")
	v.SetDefault("webhooks.tradingview_key", "")
	v.SetDefault("bots.registry_path", "config/bots.json")
	v.SetDefault("bots.run_timeout", "60s")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("retention.schedule", "@every 1h")
	v.SetDefault("retention.max_age", "720h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
