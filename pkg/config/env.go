package config

// EnvPrefix namespaces every variable the service reads.
const EnvPrefix = "SCOOTERSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvTest = "test"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "SCOOTERSHOP_APP_ENV"
	EnvPort      = "SCOOTERSHOP_APP_PORT"
	EnvLogLevel  = "SCOOTERSHOP_LOG_LEVEL"
	EnvPublicDir = "SCOOTERSHOP_PUBLIC_DIR"

	EnvDBDriver = "SCOOTERSHOP_DB_DRIVER"
	EnvDBDSN    = "SCOOTERSHOP_DB_DSN"

	EnvRedisURL  = "SCOOTERSHOP_REDIS_URL"
	EnvRedisAddr = "SCOOTERSHOP_REDIS_ADDR"

	EnvSessionTTL        = "SCOOTERSHOP_SESSION_TTL"
	EnvSessionMaxPerUser = "SCOOTERSHOP_SESSION_MAX_PER_USER"

	EnvPaymentsProvider       = "SCOOTERSHOP_PAYMENTS_PROVIDER"
	EnvMercadoPagoAccessToken = "SCOOTERSHOP_MERCADOPAGO_ACCESS_TOKEN"
	EnvMidtransServerKey      = "SCOOTERSHOP_MIDTRANS_SERVER_KEY"
	EnvMidtransEnv            = "SCOOTERSHOP_MIDTRANS_ENV"

	EnvCheckoutEnforceTotal = "SCOOTERSHOP_CHECKOUT_ENFORCE_TOTAL"
	EnvFeatureAdminAuth     = "SCOOTERSHOP_FEATURE_ADMIN_AUTH"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	PaymentsProviderMercadoPago = "mercadopago"
	PaymentsProviderMidtrans    = "midtrans"
)

const (
	MidtransEnvSandbox    = "sandbox"
	MidtransEnvProduction = "production"
)
