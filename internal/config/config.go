package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	StorageBackend string // "memory", "redis" or "firestore"

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	UseMockLLM        bool
	HistoryLimit      int
	GenerationTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid integer for %s: %q", key, v)
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("INTERVIEW_PORT", "8000"),

		StorageBackend: getEnv("INTERVIEW_STORAGE_BACKEND", "memory"),

		RedisAddr:     getEnv("INTERVIEW_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("INTERVIEW_REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("INTERVIEW_REDIS_DB", 0),
		RedisTTL:      getDurationEnv("INTERVIEW_REDIS_TTL", 24*time.Hour),

		GCPProjectID: getEnv("INTERVIEW_GCP_PROJECT", ""),
		GCPLocation:  getEnv("INTERVIEW_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("INTERVIEW_MODEL_NAME", "gemini-2.5-flash"),

		UseMockLLM:        getBoolEnv("INTERVIEW_USE_MOCK_LLM", false),
		HistoryLimit:      getIntEnv("INTERVIEW_HISTORY_LIMIT", 40),
		GenerationTimeout: getDurationEnv("INTERVIEW_GENERATION_TIMEOUT", 60*time.Second),
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("INTERVIEW_GCP_PROJECT must be set for the firestore backend")
	}
	if !cfg.UseMockLLM && cfg.GCPProjectID == "" {
		log.Fatal("INTERVIEW_GCP_PROJECT must be set unless INTERVIEW_USE_MOCK_LLM is enabled")
	}

	return cfg
}
