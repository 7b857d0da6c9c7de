package memoryinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/redis/go-redis/v9"
)

// RedisEmbeddingCache implementación en Redis del EmbeddingCache. La clave
// incluye el modelo de embeddings: cambiar de modelo invalida la caché sin
// limpiezas manuales.
type RedisEmbeddingCache struct {
	client *redis.Client
	model  string
	ttl    time.Duration
}

// NewRedisEmbeddingCache crea una nueva caché de embeddings con Redis
func NewRedisEmbeddingCache(client *redis.Client, model string, ttl time.Duration) memory.EmbeddingCache {
	return &RedisEmbeddingCache{
		client: client,
		model:  model,
		ttl:    ttl,
	}
}

func (c *RedisEmbeddingCache) key(factID string) string {
	return fmt.Sprintf("fact_embedding:%s:%s", c.model, factID)
}

// Get busca el vector de un hecho; un miss no es un error
func (c *RedisEmbeddingCache) Get(ctx context.Context, factID string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, c.key(factID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get embedding from Redis: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal([]byte(data), &vector); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}

	return vector, true, nil
}

// Set guarda el vector de un hecho con el TTL configurado
func (c *RedisEmbeddingCache) Set(ctx context.Context, factID string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	if err := c.client.Set(ctx, c.key(factID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store embedding in Redis: %w", err)
	}

	return nil
}

// Delete descarta los vectores de los hechos dados
func (c *RedisEmbeddingCache) Delete(ctx context.Context, factIDs ...string) error {
	if len(factIDs) == 0 {
		return nil
	}

	keys := make([]string, len(factIDs))
	for i, id := range factIDs {
		keys[i] = c.key(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete embeddings from Redis: %w", err)
	}

	return nil
}
