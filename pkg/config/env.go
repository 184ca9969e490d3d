package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvCatalogBaseURL = "CATALOG_BASE_URL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCommitMaxAttempts  = "COMMIT_MAX_ATTEMPTS"
	EnvCommitRetryBackoff = "COMMIT_RETRY_BACKOFF"

	EnvDefaultCurrency = "DEFAULT_CURRENCY"
	EnvCartTTL         = "CART_TTL"

	EnvDefaultSlotStart    = "DEFAULT_SLOT_START"
	EnvDefaultSlotEnd      = "DEFAULT_SLOT_END"
	EnvDefaultSlotStepMin  = "DEFAULT_SLOT_STEP_MIN"
	EnvDefaultSlotCapacity = "DEFAULT_SLOT_CAPACITY"

	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvEventsTopic   = "EVENTS_TOPIC"
	EnvEventsDLQ     = "EVENTS_DLQ_TOPIC"
)
