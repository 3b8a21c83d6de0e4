package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	config "github.com/0xsj/overwatch-pkg/config"
)

const envPrefix = "PROFILE_"

// Config holds all configuration for the profile service.
type Config struct {
	Server      ServerConfig
	Ops         OpsConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	ObjectStore ObjectStoreConfig
	Auth        AuthConfig
	Email       EmailConfig
	SMTP        SMTPConfig
	Avatar      AvatarConfig
	Tracing     TracingConfig
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	BodyLimit       string        `env:"SERVER_BODY_LIMIT" default:"4M"`
}

// OpsConfig holds the gRPC health server and metrics listener.
type OpsConfig struct {
	GRPCHost          string `env:"OPS_GRPC_HOST" default:"0.0.0.0"`
	GRPCPort          int    `env:"OPS_GRPC_PORT" default:"50061"`
	EnableReflection  bool   `env:"OPS_ENABLE_REFLECTION" default:"true"`
	EnableHealthCheck bool   `env:"OPS_ENABLE_HEALTH_CHECK" default:"true"`
	MetricsAddr       string `env:"OPS_METRICS_ADDR" default:":9090"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host              string        `env:"DATABASE_HOST" default:"localhost"`
	Port              int           `env:"DATABASE_PORT" default:"5450"`
	User              string        `env:"DATABASE_USER" default:"overwatch"`
	Password          string        `env:"DATABASE_PASSWORD" default:"overwatch" sensitive:"true"`
	Database          string        `env:"DATABASE_NAME" default:"overwatch_profile"`
	SSLMode           string        `env:"DATABASE_SSL_MODE" default:"disable"`
	MaxConns          int           `env:"DATABASE_MAX_CONNS" default:"25"`
	MinConns          int           `env:"DATABASE_MIN_CONNS" default:"5"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" default:"30m"`
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTH_CHECK_PERIOD" default:"1m"`
	BcryptCost        int           `env:"DATABASE_BCRYPT_COST" default:"10"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host         string        `env:"REDIS_HOST" default:"localhost"`
	Port         int           `env:"REDIS_PORT" default:"6390"`
	Password     string        `env:"REDIS_PASSWORD" default:"" sensitive:"true"`
	DB           int           `env:"REDIS_DB" default:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" default:"5"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
	ProfileTTL   time.Duration `env:"REDIS_PROFILE_TTL" default:"15m"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL           string        `env:"NATS_URL" default:"nats://localhost:4230"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" default:"overwatch"`
	MaxReconnects int           `env:"NATS_MAX_RECONNECTS" default:"10"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" default:"2s"`
}

// ObjectStoreConfig holds S3-compatible storage configuration.
type ObjectStoreConfig struct {
	Endpoint  string `env:"OBJECT_STORE_ENDPOINT" default:"localhost:9000"`
	AccessKey string `env:"OBJECT_STORE_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `env:"OBJECT_STORE_SECRET_KEY" default:"minioadmin" sensitive:"true"`
	Region    string `env:"OBJECT_STORE_REGION" default:""`
	UseSSL    bool   `env:"OBJECT_STORE_USE_SSL" default:"false"`
	PublicURL string `env:"OBJECT_STORE_PUBLIC_URL" default:""`
	Container string `env:"OBJECT_STORE_CONTAINER" default:"avatars"`
}

// AuthConfig holds bearer token validation and confirmation token signing.
type AuthConfig struct {
	Issuer     string `env:"AUTH_ISSUER" default:"overwatch-identity"`
	Audience   string `env:"AUTH_AUDIENCE" default:"overwatch"`
	SigningKey string `env:"AUTH_SIGNING_KEY" required:"true" sensitive:"true"`
}

// EmailConfig holds email confirmation settings.
type EmailConfig struct {
	ConfirmURL string        `env:"EMAIL_CONFIRM_URL" default:"http://localhost:8080/api/user/confirm-email"`
	TokenTTL   time.Duration `env:"EMAIL_TOKEN_TTL" default:"48h"`
	Issuer     string        `env:"EMAIL_TOKEN_ISSUER" default:"overwatch-profile"`
	SigningKey string        `env:"EMAIL_TOKEN_SIGNING_KEY" required:"true" sensitive:"true"`
}

// SMTPConfig holds mail delivery settings for the mailer.
type SMTPConfig struct {
	Host       string        `env:"SMTP_HOST" default:"localhost"`
	Port       int           `env:"SMTP_PORT" default:"1025"`
	Username   string        `env:"SMTP_USERNAME" default:""`
	Password   string        `env:"SMTP_PASSWORD" default:"" sensitive:"true"`
	From       string        `env:"SMTP_FROM" default:"no-reply@overwatch.local"`
	RequireTLS bool          `env:"SMTP_REQUIRE_TLS" default:"false"`
	Timeout    time.Duration `env:"SMTP_TIMEOUT" default:"15s"`
	MaxDeliver int           `env:"SMTP_MAX_DELIVER" default:"5"`
	RetryDelay time.Duration `env:"SMTP_RETRY_DELAY" default:"30s"`
}

// AvatarConfig holds avatar upload limits.
type AvatarConfig struct {
	MaxBytes int `env:"AVATAR_MAX_BYTES" default:"2097152"`
}

// TracingConfig holds OpenTelemetry export settings.
type TracingConfig struct {
	Enabled       bool   `env:"TRACING_ENABLED" default:"false"`
	Endpoint      string `env:"TRACING_ENDPOINT" default:"localhost:4317"`
	Insecure      bool   `env:"TRACING_INSECURE" default:"true"`
	ServiceName   string `env:"TRACING_SERVICE_NAME" default:"overwatch-profile"`
	SamplePercent int    `env:"TRACING_SAMPLE_PERCENT" default:"100"`
}

// ErrSharedSigningKey is returned when confirmation links and bearer tokens share a key.
var ErrSharedSigningKey = errors.New("EMAIL_TOKEN_SIGNING_KEY must differ from AUTH_SIGNING_KEY")

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.WithPrefix(envPrefix)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks constraints that span sections.
func (c *Config) Validate() error {
	if c.Email.SigningKey == c.Auth.SigningKey {
		return ErrSharedSigningKey
	}
	return nil
}

// MailerConfig is the subset of configuration used by the mailer.
type MailerConfig struct {
	NATS NATSConfig
	SMTP SMTPConfig
}

// LoadMailer loads the mailer configuration from environment variables.
func LoadMailer() (*MailerConfig, error) {
	cfg := &MailerConfig{}
	if err := config.Load(cfg, config.WithPrefix(envPrefix)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MigrateConfig is the subset of configuration used by migrations.
type MigrateConfig struct {
	Database DatabaseConfig
}

// LoadMigrate loads the migration configuration from environment variables.
func LoadMigrate() (*MigrateConfig, error) {
	cfg := &MigrateConfig{}
	if err := config.Load(cfg, config.WithPrefix(envPrefix)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Address returns the HTTP server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddress returns the ops gRPC server address.
func (c *OpsConfig) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.GRPCHost, c.GRPCPort)
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the PostgreSQL connection URL used by migrations.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// SampleRatio returns SamplePercent as a ratio clamped to [0, 1].
func (c *TracingConfig) SampleRatio() float64 {
	switch {
	case c.SamplePercent <= 0:
		return 0
	case c.SamplePercent >= 100:
		return 1
	}
	return float64(c.SamplePercent) / 100
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
