package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = ""

const AppEnvDev = "dev"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:pricing.db?cache=shared"
)

const (
	EnvAppEnv    = "PRICING_APP_ENV"
	EnvPort      = "PRICING_APP_PORT"
	EnvLogLevel  = "PRICING_LOG_LEVEL"
	EnvDBDSN     = "PRICING_DB_DSN"
	EnvDBHost    = "PRICING_DB_HOST"
	EnvDBUser    = "PRICING_DB_USER"
	EnvDBName    = "PRICING_DB_NAME"
	EnvRedisURL  = "PRICING_REDIS_URL"
	EnvJWTSecret = "PRICING_JWT_SECRET"
	EnvUseSQLite = "PRICING_USE_SQLITE"
	EnvBatchSize = "PRICING_BATCH_SIZE"
	EnvInterval  = "PRICING_RECOMPUTE_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
