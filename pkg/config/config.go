package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "levelup"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "LEVELUP_DB_DSN"
	EnvDBHost = "LEVELUP_DB_HOST"
	EnvDBUser = "LEVELUP_DB_USER"
	EnvDBName = "LEVELUP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEVELUP_APP_ENV" required:"true"`
	Port         string `envconfig:"LEVELUP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LEVELUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEVELUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LEVELUP_DB_DSN"`
	Driver string `envconfig:"LEVELUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEVELUP_DB_HOST"`
	LegacyPort     int    `envconfig:"LEVELUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEVELUP_DB_USER"`
	LegacyPassword string `envconfig:"LEVELUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEVELUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEVELUP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"LEVELUP_DB_SQLITE_PATH" default:"levelup.db"`

	MaxOpenConns    int           `envconfig:"LEVELUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEVELUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEVELUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEVELUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEVELUP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LEVELUP_REDIS_ADDR"`
	Password     string        `envconfig:"LEVELUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEVELUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEVELUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEVELUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEVELUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEVELUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEVELUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LEVELUP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LEVELUP_JWT_ISSUER" default:"levelup"`
	ExpirationMinutes      int    `envconfig:"LEVELUP_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"LEVELUP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LEVELUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LEVELUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LEVELUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LEVELUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LEVELUP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LEVELUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LEVELUP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LEVELUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LEVELUP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LEVELUP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LEVELUP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LEVELUP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LEVELUP_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	CartTTL              time.Duration `envconfig:"LEVELUP_CRON_CART_TTL" default:"336h"`
	CartExpiryInterval   time.Duration `envconfig:"LEVELUP_CRON_CART_EXPIRY_INTERVAL" default:"1h"`
	LoyaltyAuditInterval time.Duration `envconfig:"LEVELUP_CRON_LOYALTY_AUDIT_INTERVAL" default:"6h"`
}

func (db *DBConfig) ensureDSN() error {
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
