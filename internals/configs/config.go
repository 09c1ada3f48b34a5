package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	AppPort string

	// Recalculation pipeline
	RecalcTopic        string
	RecalcConsumers    int // bounded 1..5
	QualityWindowMonths int

	// RocketMQ (empty name servers => in-memory bus)
	MQNameServers    []string
	MQConsumerGroup  string
	MQAccessKey      string
	MQSecretKey      string
	MQNamespace      string

	// Metrics cache
	MetricsCacheTTL time.Duration

	// Reconciliation sweep
	ReconcileCron      string
	ReconcileBatchSize int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ no .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 running on Railway, using system ENV")
	}

	AppPort = GetEnv("PORT", "3000")

	RecalcTopic = GetEnv("RECALC_TOPIC", "attendance.quality.recalc")
	RecalcConsumers = clamp(GetEnvInt("RECALC_CONSUMER_CONCURRENCY", 3), 1, 5)
	QualityWindowMonths = GetEnvInt("QUALITY_WINDOW_MONTHS", 3)

	if ns := GetEnv("ROCKETMQ_NAME_SERVERS"); ns != "" {
		MQNameServers = splitCSV(ns)
	}
	MQConsumerGroup = GetEnv("ROCKETMQ_CONSUMER_GROUP", "ekklesia-recalc")
	MQAccessKey = GetEnv("ROCKETMQ_ACCESS_KEY")
	MQSecretKey = GetEnv("ROCKETMQ_SECRET_KEY")
	MQNamespace = GetEnv("ROCKETMQ_NAMESPACE")

	MetricsCacheTTL = GetEnvDuration("METRICS_CACHE_TTL", 20*time.Minute)

	ReconcileCron = GetEnv("RECONCILE_CRON", "0 */6 * * *")
	ReconcileBatchSize = GetEnvInt("RECONCILE_BATCH_SIZE", 200)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
