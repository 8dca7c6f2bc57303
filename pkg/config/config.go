package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	Payments      PaymentsConfig
	Checkout      CheckoutConfig
	Uploads       UploadsConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Metrics       MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Payments.validate(); err != nil {
		return nil, err
	}
	if cfg.Password.BcryptCost < 4 || cfg.Password.BcryptCost > 31 {
		return nil, fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", cfg.Password.BcryptCost)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCOOTERSHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"SCOOTERSHOP_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"SCOOTERSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCOOTERSHOP_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"SCOOTERSHOP_LOG_FORMAT" default:"json"`
	PublicDir    string `envconfig:"SCOOTERSHOP_PUBLIC_DIR" default:"public"`
	CORSOrigins  string `envconfig:"SCOOTERSHOP_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, part := range strings.Split(a.CORSOrigins, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

type ServiceConfig struct {
	Kind string `envconfig:"SCOOTERSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	Driver string `envconfig:"SCOOTERSHOP_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SCOOTERSHOP_DB_DSN"`

	SQLitePath string `envconfig:"SCOOTERSHOP_DB_SQLITE_PATH" default:"scootershop.db"`

	MaxOpenConns    int           `envconfig:"SCOOTERSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCOOTERSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCOOTERSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCOOTERSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the file-backed sqlite store is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SCOOTERSHOP_REDIS_URL"`
	Address      string        `envconfig:"SCOOTERSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SCOOTERSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCOOTERSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCOOTERSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCOOTERSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCOOTERSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCOOTERSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCOOTERSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	TTL             time.Duration `envconfig:"SCOOTERSHOP_SESSION_TTL" default:"168h"`
	MaxPerUser      int           `envconfig:"SCOOTERSHOP_SESSION_MAX_PER_USER" default:"10"`
	CleanupInterval time.Duration `envconfig:"SCOOTERSHOP_SESSION_CLEANUP_INTERVAL" default:"1h"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"SCOOTERSHOP_BCRYPT_COST" default:"12"`
}

type PaymentsConfig struct {
	Provider   string        `envconfig:"SCOOTERSHOP_PAYMENTS_PROVIDER" default:"mercadopago"`
	Sandbox    bool          `envconfig:"SCOOTERSHOP_PAYMENTS_SANDBOX" default:"true"`
	Timeout    time.Duration `envconfig:"SCOOTERSHOP_PAYMENTS_TIMEOUT" default:"10s"`
	Currency   string        `envconfig:"SCOOTERSHOP_PAYMENTS_CURRENCY" default:"BRL"`
	SuccessURL string        `envconfig:"SCOOTERSHOP_PAYMENTS_SUCCESS_URL" default:"http://localhost:3000/sucesso.html"`
	FailureURL string        `envconfig:"SCOOTERSHOP_PAYMENTS_FAILURE_URL" default:"http://localhost:3000/falha.html"`
	PendingURL string        `envconfig:"SCOOTERSHOP_PAYMENTS_PENDING_URL" default:"http://localhost:3000/pendente.html"`

	MercadoPagoAccessToken string `envconfig:"SCOOTERSHOP_MERCADOPAGO_ACCESS_TOKEN"`

	MidtransServerKey string `envconfig:"SCOOTERSHOP_MIDTRANS_SERVER_KEY"`
	// MidtransEnv is "sandbox" or "production"; empty follows Sandbox.
	MidtransEnv string `envconfig:"SCOOTERSHOP_MIDTRANS_ENV"`
}

// MidtransSandbox reports whether Snap calls go to the Midtrans sandbox.
func (p PaymentsConfig) MidtransSandbox() bool {
	switch strings.ToLower(strings.TrimSpace(p.MidtransEnv)) {
	case MidtransEnvSandbox:
		return true
	case MidtransEnvProduction:
		return false
	default:
		return p.Sandbox
	}
}

// NormalizedProvider returns the lower-cased provider name.
func (p PaymentsConfig) NormalizedProvider() string {
	provider := strings.ToLower(strings.TrimSpace(p.Provider))
	if provider == "" {
		return PaymentsProviderMercadoPago
	}
	return provider
}

func (p PaymentsConfig) validate() error {
	switch p.NormalizedProvider() {
	case PaymentsProviderMercadoPago, PaymentsProviderMidtrans:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvPaymentsProvider, PaymentsProviderMercadoPago, PaymentsProviderMidtrans, p.Provider)
	}
	switch strings.ToLower(strings.TrimSpace(p.MidtransEnv)) {
	case "", MidtransEnvSandbox, MidtransEnvProduction:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvMidtransEnv, MidtransEnvSandbox, MidtransEnvProduction, p.MidtransEnv)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("payments timeout must be positive")
	}
	return nil
}

type CheckoutConfig struct {
	EnforceTotal   bool          `envconfig:"SCOOTERSHOP_CHECKOUT_ENFORCE_TOTAL" default:"false"`
	IdempotencyTTL time.Duration `envconfig:"SCOOTERSHOP_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"SCOOTERSHOP_UPLOADS_DIR" default:"uploads"`
	MaxBytes     int64  `envconfig:"SCOOTERSHOP_UPLOADS_MAX_BYTES" default:"5242880"`
	MaxDimension int    `envconfig:"SCOOTERSHOP_UPLOADS_MAX_DIMENSION" default:"1920"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SCOOTERSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SCOOTERSHOP_AUTO_MIGRATE" default:"true"`
	AdminAuth   bool `envconfig:"SCOOTERSHOP_FEATURE_ADMIN_AUTH" default:"false"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"SCOOTERSHOP_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"SCOOTERSHOP_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DBDriverSQLite:
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", db.SQLitePath)
		}
		return nil
	case DBDriverPostgres:
		db.Driver = DBDriverPostgres
		if db.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverPostgres)
		}
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DBDriverSQLite, DBDriverPostgres, db.Driver)
	}
}
