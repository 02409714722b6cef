package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "pccreg/pkg/platform/strings"
)

// Server captures process-wide configuration. Values are read once at startup
// and treated as read-only afterwards.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	// Seed gates the one-shot bootstrap endpoint. An empty secret disables it.
	SeedSecret        string
	SeedAdminUsername string
	SeedAdminPassword string

	Redis  RedisConfig
	Kafka  KafkaConfig
	Upload UploadConfig

	RateLimitDisabled bool
}

// RedisConfig holds connection settings for the rate-limit backing store.
// An empty URL means Redis is not configured and the in-process fallback
// limiter is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the optional audit event sink. An empty
// broker list disables publishing; the database audit log still records
// everything.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// UploadConfig controls where proof documents land and how they are served.
type UploadConfig struct {
	Dir     string
	BaseURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := getenv("PCC_ADDR", ":8080")

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if b := os.Getenv("KAFKA_BROKERS"); b != "" {
		brokers = platformstrings.DedupeAndTrim(strings.Split(b, ","))
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSigningKey:     jwtSigningKey,
		SeedSecret:        os.Getenv("SEED_SECRET"),
		SeedAdminUsername: getenv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "pcc.audit"),
		},
		Upload: UploadConfig{
			Dir:     getenv("UPLOAD_DIR", "./uploads"),
			BaseURL: getenv("UPLOAD_BASE_URL", "/uploads"),
		},
		RateLimitDisabled: os.Getenv("RATE_LIMIT_DISABLED") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
