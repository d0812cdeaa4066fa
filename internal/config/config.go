package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers understood by StoreConfig.Driver.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
// Keys are SECTION_FIELD, e.g. POSTGRES_DSN; the bare field name (PORT,
// JWT_SECRET) is honoured as a fallback.
type Config struct {
	App          AppConfig          `envconfig:"APP"`
	Store        StoreConfig        `envconfig:"STORE"`
	Postgres     PostgresConfig     `envconfig:"POSTGRES"`
	Mongo        MongoConfig        `envconfig:"MONGO"`
	Redis        RedisConfig        `envconfig:"REDIS"`
	AMQP         AMQPConfig         `envconfig:"AMQP"`
	Logger       LoggerConfig       `envconfig:"LOG"`
	Tracing      TracingConfig      `envconfig:"OTEL"`
	Auth         AuthConfig         `envconfig:"AUTH"`
	Booking      BookingConfig      `envconfig:"BOOKING"`
	Seed         SeedConfig         `envconfig:"SEED"`
	Notification NotificationConfig `envconfig:"NOTIFY"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `envconfig:"NAME" default:"repair-booking"`
	Env                   string `envconfig:"ENV" default:"development"`
	Host                  string `envconfig:"HOST" default:"0.0.0.0"`
	Port                  string `envconfig:"PORT" default:"4001"`
	Version               string `envconfig:"VERSION" default:"dev"`
	RequestTimeoutSeconds int    `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"30"`
	CORSOrigins           string `envconfig:"CORS_ORIGINS" default:"*"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `envconfig:"DRIVER" default:"postgres"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `envconfig:"DSN"`
	MaxConns       int32  `envconfig:"MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	MigrationsDir  string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	ConnMaxIdleSec int32  `envconfig:"CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"CONN_MAX_LIFE_SECONDS" default:"300"`
}

// MongoConfig holds document store connection values. An empty Database
// selects the one named in URI, then "repair_booking".
type MongoConfig struct {
	URI            string `envconfig:"URI"`
	Database       string `envconfig:"DATABASE"`
	ConnectTimeout int    `envconfig:"CONNECT_TIMEOUT_SECONDS" default:"10"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// AMQPConfig configures the optional RabbitMQ event forwarder.
type AMQPConfig struct {
	URL      string `envconfig:"URL"`
	Exchange string `envconfig:"EXCHANGE" default:"repair-booking.events"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// TracingConfig configures OTLP trace export. An empty endpoint disables export.
type TracingConfig struct {
	Endpoint string `envconfig:"EXPORTER_OTLP_ENDPOINT"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `envconfig:"JWT_SECRET" default:"dev-secret"`
	AccessTokenTTLMinutes int    `envconfig:"ACCESS_TOKEN_TTL_MINUTES" default:"10080"`
	BcryptCost            int    `envconfig:"BCRYPT_COST" default:"10"`
}

// BookingConfig controls technician assignment.
type BookingConfig struct {
	DefaultLocation string `envconfig:"DEFAULT_LOCATION" default:"Lahore"`
	MatchSlot       bool   `envconfig:"MATCH_SLOT" default:"false"`
}

// SeedConfig controls technician seeding. An admin account is provisioned
// only when both AdminEmail and AdminPassword are set.
type SeedConfig struct {
	OnStartup      bool   `envconfig:"ON_STARTUP" default:"false"`
	LockTTLSeconds int    `envconfig:"LOCK_TTL_SECONDS" default:"60"`
	AdminEmail     string `envconfig:"ADMIN_EMAIL"`
	AdminPassword  string `envconfig:"ADMIN_PASSWORD"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `envconfig:"EMAIL_FROM" default:"noreply@example.com"`
	WebhookURL string `envconfig:"WEBHOOK_URL"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for store driver %q", c.Store.Driver)
		}
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.Store.Driver)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Booking.DefaultLocation) == "" {
		return fmt.Errorf("BOOKING_DEFAULT_LOCATION must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the JWT lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// LockTTL returns how long a seed lock is held before it expires on its own.
func (s SeedConfig) LockTTL() time.Duration {
	if s.LockTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.LockTTLSeconds) * time.Second
}
