package configkey

const (
	LogLevel      = "log.level"
	DebugMode     = "debug"
	RequestLogger = "request.logger"

	PortalPort = "portal.port"

	// AppsAPIURL is the public read API that GET /app/:id redirects to
	AppsAPIURL = "apps.api.url"

	AuthBaseURL = "auth.base.url"

	MinioAccessKey = "minio.access.key"
	MinioSecretKey = "minio.secret.key"
	MinioHost      = "minio.host"
	MinioSecure    = "minio.secure"

	AssetsBucket = "minio.bucket.assets"
	PbwBucket    = "minio.bucket.pbws"

	DatabaseUsername = "database.username"
	DatabaseDatabase = "database.database"
	DatabaseHost     = "database.host"
	DatabasePort     = "database.port"
	DatabaseSSLMode  = "database.sslmode"
	DatabaseTimezone = "database.timezone"
	DatabasePassword = "database.password"

	AlgoliaAppId       = "algolia.app.id"
	AlgoliaAdminAPIKey = "algolia.admin.api.key"
	AlgoliaIndex       = "algolia.index"
)
