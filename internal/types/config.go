package types

type RunMode string

const (
	// ModeLocal runs the API server with development defaults such as admin seeding
	ModeLocal RunMode = "local"
	// ModeAPI runs the API server
	ModeAPI RunMode = "api"
	// ModeProduction runs the API server with seeding disabled
	ModeProduction RunMode = "production"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
