package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultCatalogBaseURL = "http://localhost:8081"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Bounded retry budget for commit transactions that lose a write-write
	// conflict. Conflicts beyond the budget surface as CONFLICT.
	DefaultCommitMaxAttempts  = 5
	DefaultCommitRetryBackoff = 25 * time.Millisecond

	DefaultDefaultCurrency = "USD"
	DefaultCartTTL         = 2 * time.Hour

	// Fallback working-hours grid for services whose catalog rows define no
	// slots of their own.
	DefaultDefaultSlotStart    = "09:00"
	DefaultDefaultSlotEnd      = "18:00"
	DefaultDefaultSlotStepMin  = 60
	DefaultDefaultSlotCapacity = 1

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "reservation-events"
	DefaultEventsDLQ     = "reservation-events-dlq"

	DefaultPaginationLimit = 50
)
