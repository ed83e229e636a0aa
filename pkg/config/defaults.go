package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "innkeep"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	// TTLs by payload kind. Availability flips on every booking mutation,
	// search pages depend on both inventory and bookings, browse pages only
	// on inventory, and the total count only on inventory add/remove.
	DefaultAvailabilityTTL    = 2 * time.Minute
	DefaultSearchTTL          = 1 * time.Minute
	DefaultBrowseTTL          = 3 * time.Minute
	DefaultCountTTL           = 5 * time.Minute
	DefaultCacheSweepInterval = 1 * time.Minute
	DefaultCacheMaxEntries    = 4096

	DefaultReadRetryAttempts = 2
	DefaultReadRetryBackoff  = 100 * time.Millisecond

	DefaultKafkaBookingTopic = "booking-events"

	DefaultPageSize = 10
	MaxPageSize     = 50
)
