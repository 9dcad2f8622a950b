package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taktakmenu/platform/internal/types"
)

func TestNewConfig_ReadsFileAndEnvironment(t *testing.T) {
	t.Setenv("TAKTAK_SUBSCRIPTION_ACCELERATED_DURATION", "true")
	t.Setenv("TAKTAK_RATE_LIMIT_REQUESTS_PER_MINUTE", "7")
	t.Setenv("TAKTAK_AUTH_SECRET", "from-env")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeLocal, cfg.Deployment.Mode)
	assert.Equal(t, "taktakmenu", cfg.Postgres.DBName)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Subscription.AcceleratedDuration)
	assert.Equal(t, 7, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
}

func TestValidate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Postgres = PostgresConfig{Host: "localhost", Port: 5432, User: "u", DBName: "db"}
	assert.NoError(t, cfg.Validate())

	cfg.Sentry.Enabled = true
	assert.Error(t, cfg.Validate(), "sentry requires a dsn when enabled")

	cfg.Sentry.Enabled = false
	cfg.Auth.Secret = ""
	assert.Error(t, cfg.Validate())
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "menu", SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=menu host=db port=5433 sslmode=disable", c.GetDSN())
}
