package config

const (
	EnvStoreBackend = "STORE_BACKEND"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresURL         = "DATABASE_URL"
	EnvPostgresConnRetries = "POSTGRES_CONN_RETRIES"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort      = "PORT"
	EnvAPIPrefix = "API_PREFIX"
	EnvAPITitle  = "API_TITLE"
	EnvLogLevel  = "LOG_LEVEL"

	EnvSignatureSecret = "SIGNATURE_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvStoreMaxRetries   = "STORE_MAX_RETRIES"
	EnvStoreRetryBackoff = "STORE_RETRY_BACKOFF"
	EnvSlotGuardTTL      = "SLOT_LOCK_TTL"

	EnvEventsEnabled            = "EVENTS_ENABLED"
	EnvReservationEventsTopic   = "RESERVATION_EVENTS_TOPIC"
	EnvReservationCommandsTopic = "RESERVATION_COMMANDS_TOPIC"
	EnvReservationRepliesTopic  = "RESERVATION_REPLIES_TOPIC"
	EnvReservationDLQTopic      = "RESERVATION_DLQ_TOPIC"
	EnvWorkerGroupID            = "RESERVATION_WORKER_GROUP"
)
