package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rogerio-castellano/order-desk/internal/logging"
)

type Config struct {
	HTTPAddr string

	APIBaseURL string
	APIToken   string
	APITimeout time.Duration

	DatabaseURL string
	RedisAddr   string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret  string
	RefreshTTL time.Duration

	// AdminUsername and AdminPassword seed the first admin account when
	// it does not exist yet.
	AdminUsername string
	AdminPassword string

	CartTTL           time.Duration
	ProductsCacheTTL  time.Duration
	LowStockThreshold int

	Log logging.Config

	RateLimit RateLimitConfig
	Ban       BanConfig
	Alert     AlertConfig
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

type BanConfig struct {
	MaxStrikes   int
	StrikeWindow time.Duration
	Duration     time.Duration
}

// AlertConfig is the SMTP account used for ban alerts. An empty Host
// disables mail.
type AlertConfig struct {
	From     string
	To       string
	Host     string
	Port     int
	User     string
	Password string
}

func (a AlertConfig) Enabled() bool {
	return a.Host != "" && a.To != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "orderdesk.orders")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.refresh_ttl", "168h")
	v.SetDefault("auth.admin_username", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("ratelimit.per_second", 1)
	v.SetDefault("ratelimit.burst", 3)
	v.SetDefault("cart.ttl", "168h")
	v.SetDefault("cache.products_ttl", "30s")
	v.SetDefault("dashboard.low_stock_threshold", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("ban.max_strikes", 5)
	v.SetDefault("ban.strike_window", "10m")
	v.SetDefault("ban.duration", "15m")
	v.SetDefault("alert.from", "")
	v.SetDefault("alert.to", "")
	v.SetDefault("alert.smtp_host", "")
	v.SetDefault("alert.smtp_port", 587)
	v.SetDefault("alert.smtp_user", "")
	v.SetDefault("alert.smtp_pass", "")
}

// Load reads defaults, then config.yaml from the working directory or
// /etc/order-desk, then the environment (API_BASE_URL overrides
// api.base_url). A .env file is loaded into the environment first.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/order-desk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:          v.GetString("http.addr"),
		APIBaseURL:        v.GetString("api.base_url"),
		APIToken:          v.GetString("api.token"),
		APITimeout:        v.GetDuration("api.timeout"),
		DatabaseURL:       v.GetString("database.url"),
		RedisAddr:         v.GetString("redis.addr"),
		KafkaBrokers:      splitCSV(v.GetString("kafka.brokers")),
		KafkaTopic:        v.GetString("kafka.topic"),
		JWTSecret:         v.GetString("auth.jwt_secret"),
		RefreshTTL:        v.GetDuration("auth.refresh_ttl"),
		AdminUsername:     v.GetString("auth.admin_username"),
		AdminPassword:     v.GetString("auth.admin_password"),
		CartTTL:           v.GetDuration("cart.ttl"),
		ProductsCacheTTL:  v.GetDuration("cache.products_ttl"),
		LowStockThreshold: v.GetInt("dashboard.low_stock_threshold"),
		Log: logging.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
		RateLimit: RateLimitConfig{
			PerSecond: v.GetFloat64("ratelimit.per_second"),
			Burst:     v.GetInt("ratelimit.burst"),
		},
		Ban: BanConfig{
			MaxStrikes:   v.GetInt("ban.max_strikes"),
			StrikeWindow: v.GetDuration("ban.strike_window"),
			Duration:     v.GetDuration("ban.duration"),
		},
		Alert: AlertConfig{
			From:     v.GetString("alert.from"),
			To:       v.GetString("alert.to"),
			Host:     v.GetString("alert.smtp_host"),
			Port:     v.GetInt("alert.smtp_port"),
			User:     v.GetString("alert.smtp_user"),
			Password: v.GetString("alert.smtp_pass"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("auth.jwt_secret (AUTH_JWT_SECRET) must be set")
	}
	if cfg.APIBaseURL == "" {
		return Config{}, errors.New("api.base_url (API_BASE_URL) must be set")
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
