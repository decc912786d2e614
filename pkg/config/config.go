package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
	Blob struct {
		Path string `env:"BLOB_DB_PATH" env-default:"./data/blobs"`
	}
	Generator struct {
		Endpoint        string        `env:"GENERATOR_ENDPOINT" env-default:"http://localhost:8080/api/generate-content"`
		Timeout         time.Duration `env:"GENERATOR_TIMEOUT" env-default:"5s"`
		FallbackEnabled bool          `env:"GENERATOR_FALLBACK_ENABLED" env-default:"true"`
		SimulatedDelay  time.Duration `env:"GENERATOR_SIMULATED_DELAY" env-default:"1500ms"`
		UpstreamURL     string        `env:"GENERATOR_UPSTREAM_URL"`
		UpstreamKey     string        `env:"GENERATOR_UPSTREAM_KEY"`
	}
	Session struct {
		GuestID string `env:"SESSION_GUEST_ID" env-default:"local"`
	}
	Card struct {
		SaveDebounce time.Duration `env:"CARD_SAVE_DEBOUNCE" env-default:"1s"`
	}
	Maintenance struct {
		BlobRetention time.Duration `env:"MAINTENANCE_BLOB_RETENTION" env-default:"120h"`
	}
}

// GetDSN builds the postgres connection string in key/value form.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
