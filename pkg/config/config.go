package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPDESK_DB_DSN"`
	Driver string `envconfig:"SHOPDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHOPDESK_DB_HOST"`
	Port     int    `envconfig:"SHOPDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOPDESK_DB_USER"`
	Password string `envconfig:"SHOPDESK_DB_PASSWORD"`
	Name     string `envconfig:"SHOPDESK_DB_NAME"`
	SSLMode  string `envconfig:"SHOPDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either SHOPDESK_DB_DSN or host/user/name must be set")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPDESK_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SHOPDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPDESK_AUTO_MIGRATE" default:"false"`
}
