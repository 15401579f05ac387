// internal/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// mixChannelPrefix namespaces the per-mix change channels.
const mixChannelPrefix = "mix:changed:"

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// MixChannel returns the pub/sub channel name for one mix.
func MixChannel(mixID uuid.UUID) string {
	return mixChannelPrefix + mixID.String()
}

// PublishMixChanged fires the payload-free "this record changed" signal for a
// mix. Subscribers re-read the record themselves; the signal carries no state.
func PublishMixChanged(ctx context.Context, mixID uuid.UUID) error {
	if err := Rdb.Publish(ctx, MixChannel(mixID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish change for mix %s: %w", mixID, err)
	}
	return nil
}

// SubscribeMixChanged opens a pub/sub subscription for one mix's change
// signals. The caller owns the returned PubSub and must Close it.
func SubscribeMixChanged(ctx context.Context, mixID uuid.UUID) *redis.PubSub {
	return Rdb.Subscribe(ctx, MixChannel(mixID))
}

// Notifier adapts the global client to the mix service's ChangeNotifier.
type Notifier struct{}

func (Notifier) MixChanged(ctx context.Context, mixID uuid.UUID) error {
	return PublishMixChanged(ctx, mixID)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
