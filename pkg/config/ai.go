package config

import "time"

// AIConfig configura los servicios externos de razonamiento y embeddings
type AIConfig struct {
	OpenAIAPIKey   string
	ChatModel      string
	EmbeddingModel string

	// Retry policy for every outbound AI call
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration

	// Memory retrieval tuning
	EmbedConcurrency int
	EmbedCacheTTL    time.Duration
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		ChatModel:         getEnv("AI_CHAT_MODEL", "gpt-4o"),
		EmbeddingModel:    getEnv("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
		RetryMaxAttempts:  getEnvInt("AI_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: getEnvDuration("AI_RETRY_INITIAL_DELAY", time.Second),
		EmbedConcurrency:  getEnvInt("AI_EMBED_CONCURRENCY", 8),
		EmbedCacheTTL:     getEnvDuration("AI_EMBED_CACHE_TTL", 24*time.Hour),
	}
}
