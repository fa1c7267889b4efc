package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Spatial index backends for the postgres driver
const (
	GeoIndexPostGIS       = "postgis"
	GeoIndexEarthDistance = "earthdistance"
)

// HeaderUserID carries the caller's user ID when token verification is disabled.
const HeaderUserID = "User-Id"
