// Package cache — кэширование агрегатов (доход водителя, сводный отчет
// по поездкам) в Redis. При выключенном кэше все операции — no-op, сервер
// продолжает работать без Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Service представляет сервис кэширования агрегатов
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	enabled     bool
}

// NewService создает сервис кэширования поверх переданного клиента Redis.
// При nil-клиенте все операции — no-op.
func NewService(client *redis.Client) *Service {
	if client == nil {
		return &Service{enabled: false}
	}

	// TTL кэша агрегатов; меняются с каждой поездкой, поэтому минута
	ttl := 60
	if cacheDuration := os.Getenv("REPORT_CACHE_DURATION"); cacheDuration != "" {
		if val, err := strconv.Atoi(cacheDuration); err == nil {
			ttl = val
		}
	}

	return &Service{
		redisClient: client,
		ttl:         time.Duration(ttl) * time.Second,
		enabled:     true,
	}
}

// Get получает данные из кэша
func (c *Service) Get(ctx context.Context, key string, result interface{}) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	val, err := c.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		// Ключ не найден в кэше
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("ошибка при получении данных из кэша: %w", err)
	}

	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("ошибка при десериализации данных из кэша: %w", err)
	}

	return true, nil
}

// Set сохраняет данные в кэш
func (c *Service) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для кэша: %w", err)
	}

	return c.redisClient.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate удаляет ключи из кэша (после завершения или отмены поездки)
func (c *Service) Invalidate(ctx context.Context, keys ...string) error {
	if !c.enabled || len(keys) == 0 {
		return nil
	}
	return c.redisClient.Del(ctx, keys...).Err()
}
