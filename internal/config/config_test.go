package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	v := newViper()
	v.Set("auth.jwt_secret", "s3cret")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 168*time.Hour, cfg.CartTTL)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 1.0, cfg.RateLimit.PerSecond)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.False(t, cfg.Alert.Enabled())
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("auth.jwt_secret", "s3cret")
	v.Set("kafka.brokers", "k1:9092, k2:9092,")
	v.Set("api.timeout", "3s")
	v.Set("alert.smtp_host", "smtp.example.com")
	v.Set("alert.to", "ops@example.com")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.Alert.Enabled())
}

func TestFromViper_RequiresSecret(t *testing.T) {
	_, err := FromViper(newViper())
	assert.Error(t, err)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("API_BASE_URL", "https://shop.example.com/api")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}
