package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvAvailabilityTTL    = "CACHE_AVAILABILITY_TTL"
	EnvSearchTTL          = "CACHE_SEARCH_TTL"
	EnvBrowseTTL          = "CACHE_BROWSE_TTL"
	EnvCountTTL           = "CACHE_COUNT_TTL"
	EnvCacheSweepInterval = "CACHE_SWEEP_INTERVAL"
	EnvCacheMaxEntries    = "CACHE_MAX_ENTRIES"

	EnvReadRetryAttempts = "READ_RETRY_ATTEMPTS"
	EnvReadRetryBackoff  = "READ_RETRY_BACKOFF"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"
)
