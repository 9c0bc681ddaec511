package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	CORS         CORSConfig
	Log          LogConfig
	EventService EventServiceConfig
	RabbitMQ     RabbitMQConfig
	Outbox       OutboxConfig
}

// NotifierConfig is the configuration of the notification consumer process.
type NotifierConfig struct {
	MetricsPort string `envconfig:"NOTIFIER_METRICS_PORT" default:"9101"`
	Log         LogConfig
	RabbitMQ    RabbitMQConfig
	Redis       RedisConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// EventServiceConfig points at the event catalog that answers availability checks.
// AvailabilityPath is a route template in which {id} is replaced with the event id.
type EventServiceConfig struct {
	BaseURL          string        `envconfig:"EVENT_SERVICE_URL" default:"http://localhost:5001"`
	Timeout          time.Duration `envconfig:"EVENT_SERVICE_TIMEOUT" default:"3s"`
	RetryBackoff     time.Duration `envconfig:"EVENT_SERVICE_RETRY_BACKOFF" default:"200ms"`
	AvailabilityPath string        `envconfig:"EVENT_SERVICE_AVAILABILITY_PATH" default:"/events/{id}/availability"`
}

type RabbitMQConfig struct {
	Host           string        `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port           string        `envconfig:"RABBITMQ_PORT" default:"5672"`
	User           string        `envconfig:"RABBITMQ_USER" default:"guest"`
	Password       string        `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
	VHost          string        `envconfig:"RABBITMQ_VHOST" default:"/"`
	Queue          string        `envconfig:"RABBITMQ_QUEUE" default:"notifications"`
	PublishTimeout time.Duration `envconfig:"RABBITMQ_PUBLISH_TIMEOUT" default:"2s"`
	Prefetch       int           `envconfig:"RABBITMQ_PREFETCH" default:"16"`
	MaxAttempts    int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"3"`
	InitialBackoff time.Duration `envconfig:"NOTIFY_INITIAL_BACKOFF" default:"100ms"`
}

type OutboxConfig struct {
	Enabled     bool          `envconfig:"OUTBOX_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"OUTBOX_INTERVAL" default:"2s"`
	BatchSize   int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	MaxAttempts int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
	Lease       time.Duration `envconfig:"OUTBOX_LEASE" default:"30s"`
}

type RedisConfig struct {
	Addr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	DedupeTTL time.Duration `envconfig:"NOTIFY_DEDUPE_TTL" default:"72h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *RabbitMQConfig) BuildURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   c.VHost,
	}
	return u.String()
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func LoadNotifierConfig() (NotifierConfig, error) {
	var cfg NotifierConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return NotifierConfig{}, fmt.Errorf("failed to process notifier env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		EventService: EventServiceConfig{
			BaseURL:          "http://localhost:5001",
			Timeout:          500 * time.Millisecond,
			RetryBackoff:     10 * time.Millisecond,
			AvailabilityPath: "/events/{id}/availability",
		},
		RabbitMQ: RabbitMQConfig{
			Host:           "localhost",
			Port:           "5672",
			User:           "guest",
			Password:       "guest",
			VHost:          "/",
			Queue:          "notifications",
			PublishTimeout: 200 * time.Millisecond,
			Prefetch:       4,
			MaxAttempts:    2,
			InitialBackoff: 5 * time.Millisecond,
		},
		Outbox: OutboxConfig{
			Enabled:     false, // dispatcher is driven manually in tests
			Interval:    100 * time.Millisecond,
			BatchSize:   10,
			MaxAttempts: 3,
			Lease:       time.Second,
		},
	}
}
