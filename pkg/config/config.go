package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sapbridge"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SAPBRIDGE_DB_DSN"
	EnvDBHost = "SAPBRIDGE_DB_HOST"
	EnvDBUser = "SAPBRIDGE_DB_USER"
	EnvDBName = "SAPBRIDGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Remote       RemoteConfig
	ServiceLayer ServiceLayerConfig
	Scheduler    SchedulerConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SAPBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"SAPBRIDGE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SAPBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAPBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SAPBRIDGE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SAPBRIDGE_DB_DSN"`
	Driver string `envconfig:"SAPBRIDGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAPBRIDGE_DB_HOST"`
	LegacyPort     int    `envconfig:"SAPBRIDGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAPBRIDGE_DB_USER"`
	LegacyPassword string `envconfig:"SAPBRIDGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAPBRIDGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAPBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAPBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAPBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAPBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAPBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAPBRIDGE_REDIS_URL"`
	Address      string        `envconfig:"SAPBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"SAPBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAPBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAPBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAPBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAPBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAPBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAPBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RemoteConfig points at the MSSQL gateway that federates the HANA catalogs.
type RemoteConfig struct {
	Host         string        `envconfig:"SAPBRIDGE_REMOTE_DB_HOST" required:"true"`
	Port         int           `envconfig:"SAPBRIDGE_REMOTE_DB_PORT" default:"1433"`
	User         string        `envconfig:"SAPBRIDGE_REMOTE_DB_USER" required:"true"`
	Password     string        `envconfig:"SAPBRIDGE_REMOTE_DB_PASSWORD" required:"true"`
	Database     string        `envconfig:"SAPBRIDGE_REMOTE_DB_NAME" required:"true"`
	LinkedServer string        `envconfig:"SAPBRIDGE_REMOTE_LINKED_SERVER" default:"HANADB112"`

	ConnectTimeout time.Duration `envconfig:"SAPBRIDGE_REMOTE_CONNECT_TIMEOUT" default:"30s"`
	QueryTimeout   time.Duration `envconfig:"SAPBRIDGE_REMOTE_QUERY_TIMEOUT" default:"60s"`
}

// DSN renders the sqlserver connection URL for the remote gateway.
func (r RemoteConfig) DSN() string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(r.User, r.Password),
		Host:   fmt.Sprintf("%s:%d", r.Host, r.Port),
	}
	q := u.Query()
	q.Set("database", r.Database)
	q.Set("dial timeout", fmt.Sprintf("%d", int(r.ConnectTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

// ServiceLayerConfig carries the SAP B1 Service Layer credentials.
type ServiceLayerConfig struct {
	BaseURL   string        `envconfig:"SAPBRIDGE_SL_BASE_URL" required:"true"`
	CompanyDB string        `envconfig:"SAPBRIDGE_SL_COMPANY_DB" required:"true"`
	Username  string        `envconfig:"SAPBRIDGE_SL_USERNAME" required:"true"`
	Password  string        `envconfig:"SAPBRIDGE_SL_PASSWORD" required:"true"`
	Timeout   time.Duration `envconfig:"SAPBRIDGE_SL_TIMEOUT" default:"60s"`
	Insecure  bool          `envconfig:"SAPBRIDGE_SL_INSECURE_SKIP_VERIFY" default:"false"`
}

type SchedulerConfig struct {
	LockTTL time.Duration `envconfig:"SAPBRIDGE_SYNC_LOCK_TTL" default:"2h"`
	Tick    time.Duration `envconfig:"SAPBRIDGE_SCHEDULER_TICK" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAPBRIDGE_AUTO_MIGRATE" default:"false"`
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
