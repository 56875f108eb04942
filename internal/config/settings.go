package config

import (
	"strconv"
	"time"
)

// Settings holds the non-database runtime configuration: the LLM endpoint,
// the admin alert sink, request timeouts and the optional Redis cache.
type Settings struct {
	// LLM provider (OpenAI-compatible, e.g. a local vLLM server)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Wall-clock budget for one /chat/query request
	ChatTimeout time.Duration

	// FallbackEnabled controls whether canned guidance strings are returned
	// when the LLM is unreachable; disabled, callers get a generic apology.
	FallbackEnabled bool

	// AdminWebhookURL is the alert sink; empty means alerts are a no-op.
	AdminWebhookURL string

	// Optional Redis cache for hot list queries. Empty host disables caching.
	RedisHost string
	RedisPort int

	Port string
}

// LoadSettings reads the runtime configuration from the environment. Every
// key has a default so a bare process still boots against localhost services.
func LoadSettings() Settings {
	return Settings{
		LLMBaseURL:      getEnv("LLM_BASE_URL", "http://localhost:8000/v1"),
		LLMAPIKey:       getEnv("LLM_API_KEY", "not-needed"),
		LLMModel:        getEnv("LLM_MODEL", "meta-llama/Llama-3-70b-instruct"),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		ChatTimeout:     time.Duration(getEnvInt("CHAT_TIMEOUT_SECONDS", 60)) * time.Second,
		FallbackEnabled: getEnvBool("FALLBACK_ENABLED", true),
		AdminWebhookURL: getEnv("ADMIN_WEBHOOK_URL", ""),
		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getEnvInt("REDIS_PORT", 6379),
		Port:            getEnv("PORT", "8080"),
	}
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}
