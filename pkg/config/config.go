package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Export   ExportConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKKEEPER_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOCKKEEPER_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"STOCKKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKKEEPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `envconfig:"STOCKKEEPER_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"STOCKKEEPER_HTTP_WRITE_TIMEOUT" default:"30s"`
	CORSOrigins  []string      `envconfig:"STOCKKEEPER_CORS_ORIGINS" default:"http://localhost:5000,http://127.0.0.1:5000"`
}

type DBConfig struct {
	Driver string `envconfig:"STOCKKEEPER_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"STOCKKEEPER_DB_PATH" default:"inventory.db"`
	DSN    string `envconfig:"STOCKKEEPER_DB_DSN"`

	MaxOpenConns    int           `envconfig:"STOCKKEEPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKKEEPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKKEEPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKKEEPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the store is the embedded sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite:
		if strings.TrimSpace(db.Path) == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBPath)
		}
	case DriverPostgres:
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
	return nil
}

// RedisConfig is optional; an empty URL and address disables idempotency keys.
type RedisConfig struct {
	URL          string        `envconfig:"STOCKKEEPER_REDIS_URL"`
	Address      string        `envconfig:"STOCKKEEPER_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKKEEPER_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKKEEPER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKKEEPER_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOCKKEEPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKKEEPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKKEEPER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type ExportConfig struct {
	Path string `envconfig:"STOCKKEEPER_EXPORT_PATH" default:"inventory.csv"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKKEEPER_AUTO_MIGRATE" default:"true"`
	Metrics     bool `envconfig:"STOCKKEEPER_METRICS" default:"true"`
}
