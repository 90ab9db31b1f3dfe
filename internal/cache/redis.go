package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// Config holds the Redis connection settings
type Config struct {
	Addr             string
	Password         string
	DB               int
	KeyPrefix        string
	TTL              time.Duration
	OperationTimeout time.Duration
}

// DefaultConfig returns defaults for everything but the address
func DefaultConfig() Config {
	return Config{
		KeyPrefix:        "yearinmotion:",
		TTL:              30 * time.Minute,
		OperationTimeout: 2 * time.Second,
	}
}

type redisCache struct {
	client *redis.Client
	cfg    Config
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg Config) (ReviewCache, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &redisCache{client: client, cfg: cfg}, client.Close, nil
}

func (c *redisCache) key(athleteID int64, year int) string {
	return c.cfg.KeyPrefix + Key(athleteID, year)
}

func (c *redisCache) Get(ctx context.Context, athleteID int64, year int) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(athleteID, year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached review: %w", err)
	}

	var review models.Review
	if err := json.Unmarshal(data, &review); err != nil {
		return nil, fmt.Errorf("failed to decode cached review: %w", err)
	}
	return &review, nil
}

func (c *redisCache) Set(ctx context.Context, review *models.Review) error {
	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.key(review.AthleteID, review.Year), data, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache review: %w", err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, athleteID int64, year int) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.key(athleteID, year)).Err(); err != nil {
		return fmt.Errorf("failed to drop cached review: %w", err)
	}
	return nil
}
