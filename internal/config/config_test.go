package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.RedisURI != "localhost:6379" {
		t.Errorf("RedisURI = %q", cfg.RedisURI)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GradingSpec != "@every 1m" {
		t.Errorf("GradingSpec = %q", cfg.GradingSpec)
	}
	if cfg.DigestBucket != time.Hour {
		t.Errorf("DigestBucket = %v", cfg.DigestBucket)
	}
	if cfg.QueueSpacing != 50*time.Millisecond {
		t.Errorf("QueueSpacing = %v", cfg.QueueSpacing)
	}
	if cfg.StatsSweepLimit != 200 {
		t.Errorf("StatsSweepLimit = %d", cfg.StatsSweepLimit)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("REDIS_URI", "redis://cache.internal:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("QUEUE_SPACING", "10ms")

	cfg := Load()

	if cfg.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.RedisURI != "cache.internal:6379" {
		t.Errorf("RedisURI = %q, want the redis:// scheme stripped", cfg.RedisURI)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.QueueSpacing != 10*time.Millisecond {
		t.Errorf("QueueSpacing = %v", cfg.QueueSpacing)
	}
}
