package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvAppEnv      = "STOCKKEEPER_APP_ENV"
	EnvPort        = "STOCKKEEPER_APP_PORT"
	EnvLogLevel    = "STOCKKEEPER_LOG_LEVEL"
	EnvDBDriver    = "STOCKKEEPER_DB_DRIVER"
	EnvDBPath      = "STOCKKEEPER_DB_PATH"
	EnvDBDSN       = "STOCKKEEPER_DB_DSN"
	EnvRedisURL    = "STOCKKEEPER_REDIS_URL"
	EnvExportPath  = "STOCKKEEPER_EXPORT_PATH"
	EnvAutoMigrate = "STOCKKEEPER_AUTO_MIGRATE"
	EnvCORSOrigins = "STOCKKEEPER_CORS_ORIGINS"

	// EnvPlatformPort is the port variable set by most PaaS runtimes; it wins
	// over EnvPort when present.
	EnvPlatformPort = "PORT"
)
