package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

// Nil mirrors the driver sentinel so callers do not import the driver directly.
var Nil = redis.Nil

type IRedis interface {
	SetFeedback(ctx context.Context, key string, feedback string, expiration time.Duration) error
	GetFeedback(ctx context.Context, key string) (string, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetFeedback(ctx context.Context, key string, feedback string, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Caching feedback for key %s with expiration %v", key, expiration))
	err := r.client.Set(ctx, key, feedback, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching feedback for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetFeedback(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Feedback not cached for key %s", key))
		return "", err
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting feedback for key %s: %v", key, err))
		return "", err
	}
	return val, nil
}
