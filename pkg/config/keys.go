package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so the
// prefix only matters for untagged fields.
const EnvPrefix = "BRANDCORNER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EventsDriverNone   = "none"
	EventsDriverPubSub = "pubsub"
	EventsDriverKafka  = "kafka"
)

const (
	EnvAppEnv   = "BRANDCORNER_APP_ENV"
	EnvPort     = "BRANDCORNER_APP_PORT"
	EnvBaseURL  = "BRANDCORNER_BASE_URL"
	EnvLogLevel = "BRANDCORNER_LOG_LEVEL"

	EnvDBDSN  = "BRANDCORNER_DB_DSN"
	EnvDBHost = "BRANDCORNER_DB_HOST"
	EnvDBUser = "BRANDCORNER_DB_USER"
	EnvDBName = "BRANDCORNER_DB_NAME"

	EnvUseSQLite = "BRANDCORNER_USE_SQLITE"
	EnvRedisURL  = "BRANDCORNER_REDIS_URL"

	EnvSessionSecret = "BRANDCORNER_SESSION_SECRET"
	EnvSessionIssuer = "BRANDCORNER_SESSION_ISSUER"

	EnvSubmitTimeout = "BRANDCORNER_CHECKOUT_SUBMIT_TIMEOUT"
	EnvGuardTTL      = "BRANDCORNER_CHECKOUT_GUARD_TTL"
	EnvAdminAPIKey   = "BRANDCORNER_ADMIN_API_KEY"
	EnvAdminKeyHash  = "BRANDCORNER_ADMIN_API_KEY_HASH"

	EnvEventsDriver      = "BRANDCORNER_EVENTS_DRIVER"
	EnvEventsOrdersTopic = "BRANDCORNER_EVENTS_ORDERS_TOPIC"
	EnvGCPProjectID      = "BRANDCORNER_GCP_PROJECT_ID"
	EnvKafkaBrokers      = "BRANDCORNER_KAFKA_BROKERS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
