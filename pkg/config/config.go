package config

import (
	"fmt"
	"os"
	"regexp"
	"roomres/pkg/client"
	"roomres/pkg/db"
	"roomres/pkg/logger"
	"strconv"
	"strings"
	"time"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	postgresURLRegex   = regexp.MustCompile(`^postgres(ql)?://`)
	mongoCredentials   = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	postgresCredential = regexp.MustCompile(`(postgres(ql)?://)[^:]+:[^@]+@`)
)

type Config struct {
	ServiceName  string
	StoreBackend string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresURL         string
	PostgresConnRetries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port      string
	APIPrefix string
	APITitle  string

	SignatureSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	StoreMaxRetries   int
	StoreRetryBackoff time.Duration
	SlotGuardTTL      time.Duration

	EventsEnabled            bool
	ReservationEventsTopic   string
	ReservationCommandsTopic string
	ReservationRepliesTopic  string
	ReservationDLQTopic      string
	WorkerGroupID            string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		ServiceName:  serviceName,
		StoreBackend: strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresURL:         getEnvStr(EnvPostgresURL, DefaultPostgresURL),
		PostgresConnRetries: getEnvNum(EnvPostgresConnRetries, DefaultPostgresConnRetries),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port:      getEnvStr(EnvPort, DefaultPort),
		APIPrefix: strings.TrimSuffix(getEnvStr(EnvAPIPrefix, DefaultAPIPrefix), "/"),
		APITitle:  getEnvStr(EnvAPITitle, DefaultAPITitle),

		SignatureSecret: getEnvStr(EnvSignatureSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		StoreMaxRetries:   getEnvNum(EnvStoreMaxRetries, DefaultStoreMaxRetries),
		StoreRetryBackoff: getEnvDuration(EnvStoreRetryBackoff, DefaultStoreRetryBackoff),
		SlotGuardTTL:      getEnvDuration(EnvSlotGuardTTL, DefaultSlotGuardTTL),

		EventsEnabled:            getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		ReservationEventsTopic:   getEnvStr(EnvReservationEventsTopic, DefaultReservationEventsTopic),
		ReservationCommandsTopic: getEnvStr(EnvReservationCommandsTopic, DefaultReservationCommandsTopic),
		ReservationRepliesTopic:  getEnvStr(EnvReservationRepliesTopic, DefaultReservationRepliesTopic),
		ReservationDLQTopic:      getEnvStr(EnvReservationDLQTopic, DefaultReservationDLQTopic),
		WorkerGroupID:            getEnvStr(EnvWorkerGroupID, DefaultWorkerGroupID),

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

// Connect opens the clients required by the configured backend.
func (cfg *Config) Connect() {
	switch cfg.StoreBackend {
	case BackendMongo:
		cfg.SetMongo()
	case BackendPostgres:
		cfg.SetPostgres()
	}
	if cfg.RedisAddr != "" {
		cfg.SetRedis()
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresURL, cfg.PostgresConnRetries)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.APIPrefix != "" && !strings.HasPrefix(cfg.APIPrefix, "/") {
		problems = append(problems, fmt.Sprintf("APIPrefix must start with '/', got: %s", cfg.APIPrefix))
	}

	switch cfg.StoreBackend {
	case BackendMongo:
		if cfg.MongoURI == "" {
			problems = append(problems, "MongoURI cannot be empty")
		} else if !mongoURIRegex.MatchString(cfg.MongoURI) {
			problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			problems = append(problems, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case BackendPostgres:
		if !postgresURLRegex.MatchString(cfg.PostgresURL) {
			problems = append(problems, fmt.Sprintf("DATABASE_URL must start with 'postgres://' or 'postgresql://', got: %s", redactURI(cfg.PostgresURL)))
		}
		if cfg.PostgresConnRetries <= 0 {
			problems = append(problems, fmt.Sprintf("PostgresConnRetries must be positive, got: %d", cfg.PostgresConnRetries))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("StoreBackend must be one of [mongo, postgres, memory], got: %s", cfg.StoreBackend))
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"SlotGuardTTL", cfg.SlotGuardTTL},
	}
	for _, d := range positive {
		if d.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.StoreRetryBackoff < 0 {
		problems = append(problems, fmt.Sprintf("StoreRetryBackoff cannot be negative, got: %s", cfg.StoreRetryBackoff))
	}
	if cfg.StoreMaxRetries < 0 || cfg.StoreMaxRetries > 10 {
		problems = append(problems, fmt.Sprintf("StoreMaxRetries must be between 0 and 10, got: %d", cfg.StoreMaxRetries))
	}
	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.EventsEnabled && cfg.ReservationEventsTopic == "" {
		problems = append(problems, "ReservationEventsTopic cannot be empty when events are enabled")
	}

	if len(problems) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, p := range problems {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_backend", cfg.StoreBackend,
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"postgres_url", redactURI(cfg.PostgresURL),
		"redis_addr", cfg.RedisAddr,
		"port", cfg.Port,
		"api_prefix", cfg.APIPrefix,
		"api_title", cfg.APITitle,
		"signature_secret_set", cfg.SignatureSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"store_max_retries", cfg.StoreMaxRetries,
		"store_retry_backoff", cfg.StoreRetryBackoff,
		"events_enabled", cfg.EventsEnabled,
		"reservation_events_topic", cfg.ReservationEventsTopic,
	)
}

func redactURI(uri string) string {
	uri = mongoCredentials.ReplaceAllString(uri, "${1}***:***@")
	return postgresCredential.ReplaceAllString(uri, "${1}***:***@")
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
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return min(limit, DefaultPaginationLimit)
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

// RetryPolicy bounds the retries of a contended slot transaction.
func (cfg *Config) RetryPolicy() db.RetryPolicy {
	return db.RetryPolicy{
		MaxRetries: cfg.StoreMaxRetries,
		Backoff:    cfg.StoreRetryBackoff,
	}
}
