package config

const (
	EnvPrefix = "floracare"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDBDSN  = "FLORACARE_DB_DSN"
	EnvDBHost = "FLORACARE_DB_HOST"
	EnvDBUser = "FLORACARE_DB_USER"
	EnvDBName = "FLORACARE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
