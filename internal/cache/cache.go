// Package cache is an optional Redis layer for hot list queries. A missing
// or unreachable Redis degrades to a disabled cache, never to an error.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	logrus "github.com/sirupsen/logrus"
)

type Service struct {
	client *redis.Client
}

// NewService connects to Redis. An empty host means caching is not deployed;
// a failed ping is logged and also yields a disabled (nil-client) service.
func NewService(host string, port int) *Service {
	if host == "" {
		return &Service{client: nil}
	}

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Warnf("redis ping failed, running without cache: %v", err)
		return &Service{client: nil}
	}
	return &Service{client: client}
}

func (s *Service) Available() bool {
	return s.client != nil
}

// Get unmarshals the cached value into dest. A miss or a disabled cache
// returns redis.Nil so callers can treat both identically.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
