package config

import (
	"os"
	"strings"
	"time"

	pstrings "council/pkg/platform/strings"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; every field has a development default.
type Server struct {
	Addr string

	// StorageDriver selects the store implementations: "memory" or "postgres".
	StorageDriver string
	PostgresURL   string

	// RedisURL enables the redis-backed bill metadata cache when non-empty.
	RedisURL string

	// KafkaBrokers enables the audit stream when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// Congress.gov bill metadata enrichment.
	CongressBaseURL string
	CongressAPIKey  string
	BillCacheTTL    time.Duration
}

// FromEnv builds a Server config from COUNCIL_* environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("COUNCIL_ADDR", ":8080"),
		StorageDriver:   envOr("COUNCIL_STORAGE_DRIVER", "memory"),
		PostgresURL:     os.Getenv("COUNCIL_POSTGRES_URL"),
		RedisURL:        os.Getenv("COUNCIL_REDIS_URL"),
		AuditTopic:      envOr("COUNCIL_AUDIT_TOPIC", "council.audit"),
		CongressBaseURL: envOr("COUNCIL_CONGRESS_BASE_URL", "https://api.congress.gov/v3"),
		CongressAPIKey:  os.Getenv("COUNCIL_CONGRESS_API_KEY"),
		BillCacheTTL:    5 * time.Minute,
	}

	if brokers := os.Getenv("COUNCIL_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = pstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}

	if ttl := os.Getenv("COUNCIL_BILL_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.BillCacheTTL = d
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
