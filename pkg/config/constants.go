package config

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FUELGUARD_DB_DSN"
	EnvDBHost = "FUELGUARD_DB_HOST"
	EnvDBUser = "FUELGUARD_DB_USER"
	EnvDBName = "FUELGUARD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
