package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (backing store URL,
//   credentials) and security settings
// - default: values common across all environments (freshness window,
//   timeouts, reconcile cadence)
// -----------------------------------------------------------------------------

type Config struct {
	Transport TransportConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Session   SessionConfig
	Sync      SyncConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

type TransportConfig struct {
	BaseURL    string        `envconfig:"STORE_BASE_URL" required:"true"`
	AdminToken string        `envconfig:"STORE_ADMIN_TOKEN" default:""`
	Timeout    time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME" default:""`
	Password string `envconfig:"SMTP_PASSWORD" default:""`
	From     string `envconfig:"SMTP_FROM" default:"noreply@localhost"`
	// AppBaseURL is the public site prefix used for links inside pass emails.
	AppBaseURL string `envconfig:"APP_BASE_URL" default:"http://localhost:5173"`
}

type SessionConfig struct {
	Secret string        `envconfig:"SESSION_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
}

type SyncConfig struct {
	// FreshWindow is the minimum elapsed time since the last full refresh
	// before a silent refresh is allowed to hit the network.
	FreshWindow time.Duration `envconfig:"SYNC_FRESH_WINDOW" default:"8s"`
}

type ReconcileConfig struct {
	Enabled  bool          `envconfig:"RECONCILE_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"10m"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Transport: TransportConfig{
			BaseURL: "http://localhost:8889",
			Timeout: time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:16379", // Test redis port
		},
		Session: SessionConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Sync: SyncConfig{
			FreshWindow: 8 * time.Second,
		},
		Reconcile: ReconcileConfig{
			Enabled:  false,
			Interval: time.Minute,
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
	}
}
