package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the postgres connection settings. An empty URL selects
// the in-memory stores.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds the listing cache settings. An empty URL disables the
// cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the audit fan-out settings. No brokers disables the
// publisher.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("RECLAIM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := os.Getenv("RECLAIM_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	auditTopic := os.Getenv("RECLAIM_KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "reclaim.audit"
	}
	var brokers []string
	if raw := os.Getenv("RECLAIM_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:     addr,
		LogLevel: logLevel,
		Database: DatabaseConfig{
			URL: os.Getenv("RECLAIM_DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("RECLAIM_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: auditTopic,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}
