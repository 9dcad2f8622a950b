package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/taktakmenu/platform/internal/types"
)

type Configuration struct {
	Deployment   DeploymentConfig   `validate:"required"`
	Server       ServerConfig       `validate:"required"`
	Logging      LoggingConfig      `validate:"required"`
	Postgres     PostgresConfig     `validate:"required"`
	Auth         AuthConfig         `validate:"required"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
	// BaseDomain is the apex domain tenants are served under, e.g. taktakmenu.com
	BaseDomain string `mapstructure:"base_domain"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	Secret    string          `mapstructure:"secret" validate:"required"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	SeedAdmin SeedAdminConfig `mapstructure:"seed_admin"`

	// RolesConfigPath replaces the built in role table when set
	RolesConfigPath string `mapstructure:"roles_config_path"`
}

// SeedAdminConfig describes the platform operator created on first start
type SeedAdminConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Email    string `mapstructure:"email" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password" validate:"required_if=Enabled true"`
	FullName string `mapstructure:"full_name"`
}

type SubscriptionConfig struct {
	// AcceleratedDuration shrinks billing periods to minutes, one per month and
	// five per year. It is read once at startup.
	AcceleratedDuration bool `mapstructure:"accelerated_duration"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" validate:"min=0"`
	Burst             int  `mapstructure:"burst"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

func NewConfig() (*Configuration, error) {
	// values from a local .env are visible to AutomaticEnv below; a missing
	// file is the normal case outside development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/taktakmenu")

	v.SetEnvPrefix("TAKTAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// that are absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.base_domain", "")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "taktakmenu")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("postgres.auto_migrate", false)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.roles_config_path", "")
	v.SetDefault("auth.seed_admin.enabled", false)
	v.SetDefault("auth.seed_admin.email", "")
	v.SetDefault("auth.seed_admin.password", "")
	v.SetDefault("auth.seed_admin.full_name", "System Administrator")
	v.SetDefault("subscription.accelerated_duration", false)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth: AuthConfig{
			Secret:   "local-development-secret",
			TokenTTL: 24 * time.Hour,
		},
		Cache:     CacheConfig{Enabled: true, TTL: 10 * time.Minute},
		RateLimit: RateLimitConfig{Enabled: false, RequestsPerMinute: 100, Burst: 20},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
