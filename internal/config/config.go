package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	DocStore DocStoreConfig `yaml:"docstore"`
	Auth     AuthConfig     `yaml:"auth"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings for the relational
// store (users, records, requests).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DocStoreConfig holds the SQLite document store settings (notifications,
// activity log, dispatch ledger).
type DocStoreConfig struct {
	Path string `yaml:"path" env:"DOCSTORE_PATH" env-default:"./records-docstore.db"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"records-backend"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
}

// SMTPConfig holds outbound email settings. Email delivery is best-effort;
// a missing host disables the channel entirely.
type SMTPConfig struct {
	Host     string `yaml:"host"     env:"SMTP_HOST"`
	Port     int    `yaml:"port"     env:"SMTP_PORT"     env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASS"`
	From     string `yaml:"from"     env:"SMTP_FROM"     env-default:"records@example.org"`
	FromName string `yaml:"from_name" env:"SMTP_FROM_NAME" env-default:"Records Management"`
}

// SweeperConfig holds the reminder sweep settings.
type SweeperConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"SWEEPER_ENABLED"          env-default:"true"`
	RunAt           string        `yaml:"run_at"           env:"SWEEPER_RUN_AT"           env-default:"09:00"`
	LoanPeriod      time.Duration `yaml:"loan_period"      env:"SWEEPER_LOAN_PERIOD"      env-default:"336h"`
	LedgerRetention time.Duration `yaml:"ledger_retention" env:"SWEEPER_LEDGER_RETENTION" env-default:"720h"`
	CacheSize       int           `yaml:"cache_size"       env:"SWEEPER_CACHE_SIZE"       env-default:"4096"`
	CacheTTL        time.Duration `yaml:"cache_ttl"        env:"SWEEPER_CACHE_TTL"        env-default:"48h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
