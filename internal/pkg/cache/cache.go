package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/CourseFox/internal/pkg/env"
)

var client *redis.Client

// SetupCache connects to Redis when CACHE_HOST is set. It returns nil when
// caching is disabled or the server is unreachable; callers then run uncached.
func SetupCache() *redis.Client {
	host := strings.TrimSpace(env.GetEnv("CACHE_HOST", ""))
	if host == "" {
		log.Print("CACHE_HOST not set, customer lookup cache disabled")
		return nil
	}
	port := env.GetEnv("CACHE_PORT", "6379")
	db, err := strconv.Atoi(env.GetEnv("CACHE_DB", "0"))
	if err != nil {
		log.Printf("Warning: invalid CACHE_DB, using 0: %v", err)
		db = 0
	}

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pong, err := c.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis cache: %v", err)
		_ = c.Close()
		return nil
	}
	log.Printf("Successfully connected to Redis cache: %s", pong)

	client = c
	return client
}

// GetClient returns the Redis client, or nil when caching is disabled.
func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
