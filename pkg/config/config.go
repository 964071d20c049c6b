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
	Cart         CartConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLORACARE_APP_ENV" required:"true"`
	Port         string `envconfig:"FLORACARE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLORACARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLORACARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLORACARE_DB_DSN"`
	Driver string `envconfig:"FLORACARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLORACARE_DB_HOST"`
	LegacyPort     int    `envconfig:"FLORACARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLORACARE_DB_USER"`
	LegacyPassword string `envconfig:"FLORACARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLORACARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLORACARE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"FLORACARE_SQLITE_PATH" default:"floracare.db"`

	MaxOpenConns    int           `envconfig:"FLORACARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLORACARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLORACARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLORACARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLORACARE_REDIS_URL"`
	Address      string        `envconfig:"FLORACARE_REDIS_ADDR"`
	Password     string        `envconfig:"FLORACARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLORACARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLORACARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLORACARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLORACARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLORACARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLORACARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	// KeyNamespace prefixes every cart slot key in redis.
	KeyNamespace string `envconfig:"FLORACARE_CART_KEY_NAMESPACE" default:"fc"`
}

type CheckoutConfig struct {
	// SuccessDisplayDelay is how long the succeeded state is held before the
	// flow resets to idle. UI policy, not a core invariant.
	SuccessDisplayDelay time.Duration `envconfig:"FLORACARE_CHECKOUT_SUCCESS_DELAY" default:"3s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FLORACARE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FLORACARE_AUTO_MIGRATE" default:"false"`
	// InMemoryCart swaps the redis cart slot for a process-local map. Dev only.
	InMemoryCart bool `envconfig:"FLORACARE_IN_MEMORY_CART" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
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
