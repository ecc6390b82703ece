// Package config loads runtime configuration from the environment, with
// stage-specific dotenv files layered underneath for non-production stages.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/abadmin/internal/adapters/otel"
	"github.com/emiliopalmerini/abadmin/internal/domain"
)

const (
	StageDev     = "dev"
	StageTesting = "testing"
	StageProd    = "prod"

	DriverMongo  = "mongo"
	DriverLibsql = "libsql"
	DriverMemory = "memory"

	devSecretKey = "abadmin-insecure-dev-key"
)

// App holds process-wide settings.
type App struct {
	Stage              string `envconfig:"ENV_STAGE" default:"dev"`
	StoreDriver        string `envconfig:"STORE_DRIVER" default:"memory"`
	ButtonExperimentID string `envconfig:"BUTTON_EXPERIMENT_UUID"`
	ControlVariant     string `envconfig:"CONTROL_VARIANT_NAME" default:"control"`
}

// Mongo holds document store configuration. URI wins over the
// user/password/subdomain triple.
type Mongo struct {
	URI       string `envconfig:"MONGO_DB_URI"`
	User      string `envconfig:"MONGO_USER"`
	Password  string `envconfig:"MONGO_PASSWORD"`
	Subdomain string `envconfig:"MONGO_DEPLOYMENT_SUBDOMAIN"`
	Database  string `envconfig:"MONGO_DATABASE" default:"ab_testing"`
}

// Libsql holds Turso/libsql configuration.
type Libsql struct {
	URL       string `envconfig:"LIBSQL_URL" default:"file:abadmin.db"`
	AuthToken string `envconfig:"LIBSQL_AUTH_TOKEN"`
}

// Web holds HTTP server configuration.
type Web struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	SecretKey       string        `envconfig:"FLASK_SECRET_KEY"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Admin holds the optional basic auth credentials for /admin.
type Admin struct {
	Username string `envconfig:"ADMIN_USERNAME"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

// Enabled reports whether both credentials are set.
func (a Admin) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

type Config struct {
	App    App
	Mongo  Mongo
	Libsql Libsql
	Web    Web
	Admin  Admin
	Otel   otel.Config
}

// Load reads dotenv files from the working directory, then the environment.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with dotenv files looked up in dir.
func LoadFrom(dir string) (*Config, error) {
	stage := os.Getenv("ENV_STAGE")
	if stage == "" {
		stage = StageDev
	}
	if err := loadDotEnv(dir, stage); err != nil {
		return nil, err
	}

	var cfg Config
	for _, section := range []any{&cfg.App, &cfg.Mongo, &cfg.Libsql, &cfg.Web, &cfg.Admin, &cfg.Otel} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads .env.<stage> and then .env. Variables already set win, so
// the stage file takes precedence over the shared one. Production reads the
// environment only.
func loadDotEnv(dir, stage string) error {
	if stage == StageProd {
		return nil
	}
	for _, name := range []string{".env." + stage, ".env"} {
		err := godotenv.Load(filepath.Join(dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	c.App.Stage = strings.ToLower(strings.TrimSpace(c.App.Stage))
	switch c.App.Stage {
	case StageDev, StageTesting, StageProd:
	default:
		return fmt.Errorf("ENV_STAGE must be one of dev, testing, prod, got %q", c.App.Stage)
	}

	c.App.StoreDriver = strings.ToLower(strings.TrimSpace(c.App.StoreDriver))
	switch c.App.StoreDriver {
	case DriverMongo:
		if _, err := c.Mongo.ConnectionURI(); err != nil {
			return err
		}
	case DriverLibsql:
		if c.Libsql.URL == "" {
			return fmt.Errorf("LIBSQL_URL is required for the libsql store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of mongo, libsql, memory, got %q", c.App.StoreDriver)
	}

	if c.App.ButtonExperimentID != "" {
		if _, err := uuid.Parse(c.App.ButtonExperimentID); err != nil {
			return fmt.Errorf("BUTTON_EXPERIMENT_UUID: %w: %v", domain.ErrInvalidExperimentID, err)
		}
	}

	if c.Web.SecretKey == "" {
		if c.App.Stage == StageProd {
			return fmt.Errorf("FLASK_SECRET_KEY is required in prod")
		}
		log.Printf("config: FLASK_SECRET_KEY not set, using an insecure development key")
		c.Web.SecretKey = devSecretKey
	}
	if c.Web.RateLimitRPS < 0 || c.Web.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// ConnectionURI returns MONGO_DB_URI or builds an Atlas SRV URI from the
// user, password and deployment subdomain.
func (m Mongo) ConnectionURI() (string, error) {
	if m.URI != "" {
		return m.URI, nil
	}
	if m.User == "" || m.Password == "" || m.Subdomain == "" {
		return "", fmt.Errorf("MONGO_DB_URI or MONGO_USER, MONGO_PASSWORD and MONGO_DEPLOYMENT_SUBDOMAIN are required for the mongo store")
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(m.User, m.Password),
		Host:     m.Subdomain,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String(), nil
}

// DatabaseName scopes the database to the stage, e.g. ab_testing--dev.
func (m Mongo) DatabaseName(stage string) string {
	return m.Database + "--" + stage
}
