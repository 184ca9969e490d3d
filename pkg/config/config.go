package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"staybook/pkg/client"
	"staybook/pkg/logger"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	CatalogBaseURL string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CommitMaxAttempts  int
	CommitRetryBackoff time.Duration

	DefaultCurrency string
	CartTTL         time.Duration

	DefaultSlotStart    string
	DefaultSlotEnd      string
	DefaultSlotStepMin  int
	DefaultSlotCapacity int

	EventsEnabled bool
	EventsTopic   string
	EventsDLQ     string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		CatalogBaseURL: getEnvStr(EnvCatalogBaseURL, DefaultCatalogBaseURL),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CommitMaxAttempts:  getEnvNum(EnvCommitMaxAttempts, DefaultCommitMaxAttempts),
		CommitRetryBackoff: getEnvDuration(EnvCommitRetryBackoff, DefaultCommitRetryBackoff),

		DefaultCurrency: getEnvStr(EnvDefaultCurrency, DefaultDefaultCurrency),
		CartTTL:         getEnvDuration(EnvCartTTL, DefaultCartTTL),

		DefaultSlotStart:    getEnvStr(EnvDefaultSlotStart, DefaultDefaultSlotStart),
		DefaultSlotEnd:      getEnvStr(EnvDefaultSlotEnd, DefaultDefaultSlotEnd),
		DefaultSlotStepMin:  getEnvNum(EnvDefaultSlotStepMin, DefaultDefaultSlotStepMin),
		DefaultSlotCapacity: getEnvNum(EnvDefaultSlotCapacity, DefaultDefaultSlotCapacity),

		EventsEnabled: getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:   getEnvStr(EnvEventsTopic, DefaultEventsTopic),
		EventsDLQ:     getEnvStr(EnvEventsDLQ, DefaultEventsDLQ),

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
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.CommitMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("CommitMaxAttempts must be positive, got: %d", cfg.CommitMaxAttempts))
	}
	if cfg.CommitRetryBackoff <= 0 {
		errors = append(errors, fmt.Sprintf("CommitRetryBackoff must be positive, got: %s", cfg.CommitRetryBackoff))
	}

	if len(cfg.DefaultCurrency) != 3 {
		errors = append(errors, fmt.Sprintf("DefaultCurrency must be a 3-letter code, got: %s", cfg.DefaultCurrency))
	}
	if cfg.CartTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CartTTL must be positive, got: %s", cfg.CartTTL))
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(cfg.DefaultSlotStart) {
		errors = append(errors, fmt.Sprintf("DefaultSlotStart must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultSlotStart))
	}
	if !timeRegex.MatchString(cfg.DefaultSlotEnd) {
		errors = append(errors, fmt.Sprintf("DefaultSlotEnd must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultSlotEnd))
	}
	if cfg.DefaultSlotStepMin <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultSlotStepMin must be positive, got: %d", cfg.DefaultSlotStepMin))
	}
	if cfg.DefaultSlotCapacity <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultSlotCapacity must be positive, got: %d", cfg.DefaultSlotCapacity))
	}

	if cfg.EventsEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"catalog_base_url", cfg.CatalogBaseURL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"commit_max_attempts", cfg.CommitMaxAttempts,
		"commit_retry_backoff", cfg.CommitRetryBackoff,
		"default_currency", cfg.DefaultCurrency,
		"cart_ttl", cfg.CartTTL,
		"default_slot_start", cfg.DefaultSlotStart,
		"default_slot_end", cfg.DefaultSlotEnd,
		"default_slot_step_min", cfg.DefaultSlotStepMin,
		"default_slot_capacity", cfg.DefaultSlotCapacity,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
	)
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
