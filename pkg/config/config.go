package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Checkout     CheckoutConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	Events       EventsConfig
	GCP          GCPConfig
	Kafka        KafkaConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Events.validate(cfg.GCP, cfg.Kafka); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BRANDCORNER_APP_ENV" required:"true"`
	Port         string `envconfig:"BRANDCORNER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRANDCORNER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRANDCORNER_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"BRANDCORNER_LOG_FORMAT" default:"json"`
	// BaseURL prefixes the order confirmation redirect handed back after checkout.
	BaseURL     string `envconfig:"BRANDCORNER_BASE_URL" default:""`
	CatalogPath string `envconfig:"BRANDCORNER_CATALOG_PATH" default:"/products"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// OrderURL returns the storefront route for the order confirmation view.
func (a AppConfig) OrderURL(orderID string) string {
	return strings.TrimRight(a.BaseURL, "/") + "/order/" + orderID
}

type DBConfig struct {
	DSN    string `envconfig:"BRANDCORNER_DB_DSN"`
	Driver string `envconfig:"BRANDCORNER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BRANDCORNER_DB_HOST"`
	LegacyPort     int    `envconfig:"BRANDCORNER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BRANDCORNER_DB_USER"`
	LegacyPassword string `envconfig:"BRANDCORNER_DB_PASSWORD"`
	LegacyName     string `envconfig:"BRANDCORNER_DB_NAME"`
	LegacySSLMode  string `envconfig:"BRANDCORNER_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"BRANDCORNER_SQLITE_PATH" default:"brandcorner.db"`

	MaxOpenConns    int           `envconfig:"BRANDCORNER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRANDCORNER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRANDCORNER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRANDCORNER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRANDCORNER_REDIS_URL"`
	Address      string        `envconfig:"BRANDCORNER_REDIS_ADDR"`
	Password     string        `envconfig:"BRANDCORNER_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRANDCORNER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRANDCORNER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRANDCORNER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRANDCORNER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRANDCORNER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRANDCORNER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig signs the guest cart session tokens.
type SessionConfig struct {
	Secret     string `envconfig:"BRANDCORNER_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"BRANDCORNER_SESSION_ISSUER" default:"brandcorner"`
	TTLMinutes int    `envconfig:"BRANDCORNER_SESSION_TTL_MINUTES" default:"43200"`
}

// TTL returns the guest session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type CheckoutConfig struct {
	SubmitTimeout time.Duration `envconfig:"BRANDCORNER_CHECKOUT_SUBMIT_TIMEOUT" default:"15s"`
	GuardTTL      time.Duration `envconfig:"BRANDCORNER_CHECKOUT_GUARD_TTL" default:"30s"`
	CartTTL       time.Duration `envconfig:"BRANDCORNER_CART_TTL" default:"720h"`
}

// validate keeps the submission guard alive for the whole submit timeout.
func (c CheckoutConfig) validate() error {
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvSubmitTimeout)
	}
	if c.GuardTTL <= c.SubmitTimeout {
		return fmt.Errorf("%s (%s) must be longer than %s (%s)", EnvGuardTTL, c.GuardTTL, EnvSubmitTimeout, c.SubmitTimeout)
	}
	return nil
}

// AdminConfig guards the catalog/order admin routes. APIKeyHash holds an
// argon2id hash and takes precedence over the plain APIKey.
type AdminConfig struct {
	APIKey     string `envconfig:"BRANDCORNER_ADMIN_API_KEY"`
	APIKeyHash string `envconfig:"BRANDCORNER_ADMIN_API_KEY_HASH"`
}

// Enabled reports whether any admin credential is configured.
func (a AdminConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != "" || strings.TrimSpace(a.APIKeyHash) != ""
}

// RateLimitConfig throttles anonymous write surfaces per client IP.
type RateLimitConfig struct {
	Window        time.Duration `envconfig:"BRANDCORNER_RATE_LIMIT_WINDOW" default:"1m"`
	SessionLimit  int           `envconfig:"BRANDCORNER_RATE_LIMIT_SESSION" default:"30"`
	CheckoutLimit int           `envconfig:"BRANDCORNER_RATE_LIMIT_CHECKOUT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BRANDCORNER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,https://brandcorner.co.in"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BRANDCORNER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BRANDCORNER_AUTO_MIGRATE" default:"false"`
}

type EventsConfig struct {
	Driver      string `envconfig:"BRANDCORNER_EVENTS_DRIVER" default:"none"`
	OrdersTopic string `envconfig:"BRANDCORNER_EVENTS_ORDERS_TOPIC" default:"bc-order-events"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BRANDCORNER_GCP_PROJECT_ID"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"BRANDCORNER_KAFKA_BROKERS"`
}

// DriverName returns the normalized events driver.
func (e EventsConfig) DriverName() string {
	driver := strings.TrimSpace(strings.ToLower(e.Driver))
	if driver == "" {
		return EventsDriverNone
	}
	return driver
}

func (e EventsConfig) validate(gcp GCPConfig, kafka KafkaConfig) error {
	switch e.DriverName() {
	case EventsDriverNone:
		return nil
	case EventsDriverPubSub:
		if strings.TrimSpace(gcp.ProjectID) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvGCPProjectID, EnvEventsDriver, EventsDriverPubSub)
		}
	case EventsDriverKafka:
		if len(kafka.Brokers) == 0 {
			return fmt.Errorf("%s is required when %s=%s", EnvKafkaBrokers, EnvEventsDriver, EventsDriverKafka)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvEventsDriver, e.Driver)
	}
	if strings.TrimSpace(e.OrdersTopic) == "" {
		return fmt.Errorf("%s is required", EnvEventsOrdersTopic)
	}
	return nil
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
