package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Cashtrack"`
		Port      int    `envconfig:"PORT" default:"8080"`
		Currency  string `envconfig:"CURRENCY" default:"NGN"`
		Locale    string `envconfig:"LOCALE" default:"en-NG"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
		// LogFile receives the TUI's logs; the terminal belongs to the UI.
		LogFile string `envconfig:"LOG_FILE" default:""`

		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"https://cashtrack-01.onrender.com/api/v1"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// Mock routes every auth operation to the in-memory implementation.
		Mock       bool   `envconfig:"MOCK_AUTH" default:"false"`
		MockSecret string `envconfig:"MOCK_AUTH_SECRET" default:"cashtrack-dev"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"sqlite3"`
		Path   string `envconfig:"STORE_PATH" default:"cashtrack.db"`
		Key    string `envconfig:"STORE_KEY" default:"cashtrack_state"`
	}

	// DB is only read when Store.Driver is "pgx".
	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"cashtrack"`
	}
}

// DSN returns the data source name for the configured store driver.
func (c *Config) DSN() string {
	if c.Store.Driver == "pgx" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.Store.Path
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
