package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Quota     QuotaConfig     `mapstructure:"quota"     validate:"required"`
	Events    EventsConfig    `mapstructure:"events"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is a postgres connection string, or a file path for sqlite.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"                    validate:"required,oneof=postgres sqlite"`
	URL                    string `mapstructure:"url"                       validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required_if=Enabled true"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=5"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// SchedulerConfig tunes the memory model and the due-card listing.
type SchedulerConfig struct {
	DesiredRetention       float64 `mapstructure:"desired_retention"        validate:"gt=0,lt=1"`
	MaximumIntervalDays    int     `mapstructure:"maximum_interval_days"    validate:"gte=1,lte=36500"`
	LearningStepsMinutes   []int   `mapstructure:"learning_steps_minutes"   validate:"required,min=1,dive,gt=0"`
	RelearningStepsMinutes []int   `mapstructure:"relearning_steps_minutes" validate:"required,min=1,dive,gt=0"`
	EnableFuzz             bool    `mapstructure:"enable_fuzz"`
	DefaultLimit           int     `mapstructure:"default_limit"            validate:"gte=1,ltefield=MaxLimit"`
	MaxLimit               int     `mapstructure:"max_limit"                validate:"gte=1,lte=200"`
}

// QuotaConfig bounds AI card generation per user.
type QuotaConfig struct {
	MonthlyLimit  int `mapstructure:"monthly_limit"   validate:"gte=1"`
	MaxPerRequest int `mapstructure:"max_per_request" validate:"gte=1,ltefield=MonthlyLimit"`
}

// EventsConfig sizes the background event-log workers.
type EventsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=1"`
}
