package config

import (
	"fmt"
	"innkeep/pkg/client"
	"innkeep/pkg/logger"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	AvailabilityTTL    time.Duration
	SearchTTL          time.Duration
	BrowseTTL          time.Duration
	CountTTL           time.Duration
	CacheSweepInterval time.Duration
	CacheMaxEntries    int

	ReadRetryAttempts int
	ReadRetryBackoff  time.Duration

	KafkaBrokers      []string
	KafkaBookingTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		AvailabilityTTL:    getEnvDuration(EnvAvailabilityTTL, DefaultAvailabilityTTL),
		SearchTTL:          getEnvDuration(EnvSearchTTL, DefaultSearchTTL),
		BrowseTTL:          getEnvDuration(EnvBrowseTTL, DefaultBrowseTTL),
		CountTTL:           getEnvDuration(EnvCountTTL, DefaultCountTTL),
		CacheSweepInterval: getEnvDuration(EnvCacheSweepInterval, DefaultCacheSweepInterval),
		CacheMaxEntries:    getEnvNum(EnvCacheMaxEntries, DefaultCacheMaxEntries),

		ReadRetryAttempts: getEnvNum(EnvReadRetryAttempts, DefaultReadRetryAttempts),
		ReadRetryBackoff:  getEnvDuration(EnvReadRetryBackoff, DefaultReadRetryBackoff),

		KafkaBrokers:      getEnvList(EnvKafkaBrokers, nil),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	durations := map[string]time.Duration{
		"MongoConnTimeout":   cfg.MongoConnTimeout,
		"RequestTimeout":     cfg.RequestTimeout,
		"ReadTimeout":        cfg.ReadTimeout,
		"WriteTimeout":       cfg.WriteTimeout,
		"IdleTimeout":        cfg.IdleTimeout,
		"ShutdownTimeout":    cfg.ShutdownTimeout,
		"RateLimitWindow":    cfg.RateLimitWindow,
		"AvailabilityTTL":    cfg.AvailabilityTTL,
		"SearchTTL":          cfg.SearchTTL,
		"BrowseTTL":          cfg.BrowseTTL,
		"CountTTL":           cfg.CountTTL,
		"CacheSweepInterval": cfg.CacheSweepInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.CacheMaxEntries <= 0 {
		problems = append(problems, fmt.Sprintf("CacheMaxEntries must be positive, got: %d", cfg.CacheMaxEntries))
	}
	if cfg.ReadRetryAttempts < 0 {
		problems = append(problems, fmt.Sprintf("ReadRetryAttempts cannot be negative, got: %d", cfg.ReadRetryAttempts))
	}
	if cfg.ReadRetryBackoff < 0 {
		problems = append(problems, fmt.Sprintf("ReadRetryBackoff cannot be negative, got: %s", cfg.ReadRetryBackoff))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"availability_ttl", cfg.AvailabilityTTL,
		"search_ttl", cfg.SearchTTL,
		"browse_ttl", cfg.BrowseTTL,
		"count_ttl", cfg.CountTTL,
		"cache_sweep_interval", cfg.CacheSweepInterval,
		"cache_max_entries", cfg.CacheMaxEntries,
		"read_retry_attempts", cfg.ReadRetryAttempts,
		"read_retry_backoff", cfg.ReadRetryBackoff,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizePage clamps a 1-indexed page number.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
