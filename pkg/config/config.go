package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Storage       StorageConfig
	FeatureFlags  FeatureFlagsConfig
	Periods       PeriodsConfig
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
	Env          string `envconfig:"FUELGUARD_APP_ENV" required:"true"`
	Port         string `envconfig:"FUELGUARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUELGUARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUELGUARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FUELGUARD_DB_DSN"`
	Driver string `envconfig:"FUELGUARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUELGUARD_DB_HOST"`
	LegacyPort     int    `envconfig:"FUELGUARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUELGUARD_DB_USER"`
	LegacyPassword string `envconfig:"FUELGUARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUELGUARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUELGUARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUELGUARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUELGUARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUELGUARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUELGUARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUELGUARD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUELGUARD_REDIS_ADDR"`
	Password     string        `envconfig:"FUELGUARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUELGUARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUELGUARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUELGUARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUELGUARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUELGUARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUELGUARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret     string `envconfig:"FUELGUARD_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"FUELGUARD_SESSION_ISSUER" required:"true"`
	TTLMinutes int    `envconfig:"FUELGUARD_SESSION_TTL_MINUTES" default:"720"`
	CookieName string `envconfig:"FUELGUARD_SESSION_COOKIE" default:"fg_session"`
	Secure     bool   `envconfig:"FUELGUARD_SESSION_SECURE" default:"true"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUELGUARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUELGUARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUELGUARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUELGUARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUELGUARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FUELGUARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"FUELGUARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"FUELGUARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type StorageConfig struct {
	EvidenceDir   string `envconfig:"FUELGUARD_EVIDENCE_DIR" default:"./var/evidence"`
	MaxUploadMB   int    `envconfig:"FUELGUARD_MAX_UPLOAD_MB" default:"25"`
	AllowedTypes  string `envconfig:"FUELGUARD_EVIDENCE_TYPES" default:"application/pdf,image/jpeg,image/png"`
	ExportMaxRows int    `envconfig:"FUELGUARD_EXPORT_MAX_ROWS" default:"10000"`
}

// AllowedContentTypes splits the configured comma list into normalized types.
func (s StorageConfig) AllowedContentTypes() []string {
	parts := strings.Split(s.AllowedTypes, ",")
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			types = append(types, trimmed)
		}
	}
	return types
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FUELGUARD_AUTO_MIGRATE" default:"false"`
	AutoPeriods bool `envconfig:"FUELGUARD_AUTO_PERIODS" default:"true"`
}

type PeriodsConfig struct {
	CronInterval time.Duration `envconfig:"FUELGUARD_PERIODS_CRON_INTERVAL" default:"6h"`
	LockTTL      time.Duration `envconfig:"FUELGUARD_PERIODS_LOCK_TTL" default:"1h"`
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
