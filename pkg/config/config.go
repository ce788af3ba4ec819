package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	WebAuthn      WebAuthnConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLATEFOLIO_APP_ENV" default:"development"`
	Port         string `envconfig:"SLATEFOLIO_APP_PORT" default:"5050"`
	LogLevel     string `envconfig:"SLATEFOLIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLATEFOLIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SLATEFOLIO_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"SLATEFOLIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLATEFOLIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLATEFOLIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLATEFOLIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLATEFOLIO_REDIS_URL"`
	Address      string        `envconfig:"SLATEFOLIO_REDIS_ADDR"`
	Password     string        `envconfig:"SLATEFOLIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLATEFOLIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLATEFOLIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLATEFOLIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLATEFOLIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLATEFOLIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLATEFOLIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SLATEFOLIO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SLATEFOLIO_JWT_ISSUER" default:"slatefolio"`
	ExpirationMinutes int    `envconfig:"SLATEFOLIO_JWT_EXPIRATION_MINUTES" default:"10080"`
	CookieName        string `envconfig:"SLATEFOLIO_JWT_COOKIE_NAME" default:"token"`
	CookieSecure      bool   `envconfig:"SLATEFOLIO_JWT_COOKIE_SECURE" default:"false"`
}

// SessionTTL returns how long a minted token (and its redis session) lives.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SLATEFOLIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SLATEFOLIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SLATEFOLIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SLATEFOLIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SLATEFOLIO_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"SLATEFOLIO_PASSWORD_MIN_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SLATEFOLIO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"SLATEFOLIO_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SLATEFOLIO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SLATEFOLIO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit    int           `envconfig:"SLATEFOLIO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

type UploadsConfig struct {
	Dir            string `envconfig:"SLATEFOLIO_UPLOADS_DIR" default:"uploads"`
	MaxMediaBytes  int64  `envconfig:"SLATEFOLIO_UPLOADS_MAX_MEDIA_BYTES" default:"52428800"`
	MaxResumeBytes int64  `envconfig:"SLATEFOLIO_UPLOADS_MAX_RESUME_BYTES" default:"10485760"`
}

type WebAuthnConfig struct {
	RPDisplayName string `envconfig:"SLATEFOLIO_WEBAUTHN_RP_NAME" default:"Slatefolio"`
	RPID          string `envconfig:"SLATEFOLIO_WEBAUTHN_RP_ID" default:"localhost"`
	RPOrigin      string `envconfig:"SLATEFOLIO_WEBAUTHN_ORIGIN" default:"http://localhost:8080"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"SLATEFOLIO_CRON_INTERVAL" default:"24h"`
	OrphanGracePeriod time.Duration `envconfig:"SLATEFOLIO_CRON_ORPHAN_GRACE" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLATEFOLIO_AUTO_MIGRATE" default:"false"`
}
