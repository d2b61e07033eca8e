package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

func InitRedis() {
	url := os.Getenv("REDIS_URL")
	opt, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		log.Fatalf("failed to parse redis url: %v", err)
	}
	RedisClient = redis.NewClient(opt)

	_, err = RedisClient.Ping(context.Background()).Result()
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Redis connection established")
}

// SeenUpdate marks a webhook update ID as processed and reports
// whether it had been seen before. Telegram redelivers updates until
// they are acknowledged, so duplicates are expected. With no Redis
// configured every update counts as fresh.
func SeenUpdate(ctx context.Context, updateID int64) (bool, error) {
	if RedisClient == nil {
		return false, nil
	}
	key := fmt.Sprintf("update_seen:%d", updateID)
	fresh, err := RedisClient.SetNX(ctx, key, 1, 24*time.Hour).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
