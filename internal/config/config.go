package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the worker reads from the environment.
type Config struct {
	MongoURI string
	MongoDB  string
	RedisURI string
	Port     string
	LogMode  string

	// Scheduler cadences (cron specs with a seconds field)
	StatsSweepSpec  string
	GradingSpec     string
	DigestSpec      string
	DigestBucket    time.Duration
	DigestLeaseTTL  time.Duration
	CategoryTTL     time.Duration
	QueueSpacing    time.Duration
	StatsSweepLimit int
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "prepseed")
	v.SetDefault("REDIS_URI", "localhost:6379")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")

	v.SetDefault("STATS_SWEEP_SPEC", "@every 30s")
	v.SetDefault("GRADING_SPEC", "@every 1m")
	v.SetDefault("DIGEST_SPEC", "@every 10m")
	v.SetDefault("DIGEST_BUCKET", "1h")
	v.SetDefault("DIGEST_LEASE_TTL", "2h")
	v.SetDefault("CATEGORY_TTL", "24h")
	v.SetDefault("QUEUE_SPACING", "50ms")
	v.SetDefault("STATS_SWEEP_LIMIT", 200)

	redisURI := v.GetString("REDIS_URI")
	redisURI = strings.TrimPrefix(redisURI, "redis://")

	return &Config{
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDB:         v.GetString("MONGO_DB"),
		RedisURI:        redisURI,
		Port:            v.GetString("PORT"),
		LogMode:         v.GetString("LOG_MODE"),
		StatsSweepSpec:  v.GetString("STATS_SWEEP_SPEC"),
		GradingSpec:     v.GetString("GRADING_SPEC"),
		DigestSpec:      v.GetString("DIGEST_SPEC"),
		DigestBucket:    v.GetDuration("DIGEST_BUCKET"),
		DigestLeaseTTL:  v.GetDuration("DIGEST_LEASE_TTL"),
		CategoryTTL:     v.GetDuration("CATEGORY_TTL"),
		QueueSpacing:    v.GetDuration("QUEUE_SPACING"),
		StatsSweepLimit: v.GetInt("STATS_SWEEP_LIMIT"),
	}
}
