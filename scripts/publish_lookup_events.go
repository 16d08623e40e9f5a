//go:build ignore

// Публикует синтетические LookupEvent в stream:geo:lookup и ждёт, пока
// воркер статистики увеличит счётчики в geo:lookup:stats.
//
//	go run scripts/publish_lookup_events.go -redis localhost:6379 -n 5
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/geo-lookup-proxy/internal/domain"
	redisRepo "github.com/geo-lookup-proxy/internal/repository/redis"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	count := flag.Int("n", 3, "number of events to publish")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	before, err := totalCount(ctx, client)
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	actions := domain.Actions
	for i := 0; i < *count; i++ {
		action := actions[i%len(actions)]
		event := domain.NewLookupEvent(action.String(), domain.OutcomeSuccess, 12*time.Millisecond)

		data, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("Failed to marshal event: %v", err)
		}

		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: domain.StreamGeoLookup,
			Values: map[string]interface{}{
				"data": string(data),
			},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}

		fmt.Printf("published %s action=%s message_id=%s\n", event.ID, event.Action, id)
	}

	fmt.Printf("waiting for %s total to reach %d...\n", redisRepo.StatsKey, before+int64(*count))

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("timeout: is cmd/worker running with WORKER_ENABLED=true?")
			return
		case <-ticker.C:
			total, err := totalCount(ctx, client)
			if err != nil {
				continue
			}
			if total >= before+int64(*count) {
				fmt.Printf("aggregated: total=%d\n", total)
				return
			}
		}
	}
}

func totalCount(ctx context.Context, client *redis.Client) (int64, error) {
	values, err := client.HGetAll(ctx, redisRepo.StatsKey).Result()
	if err != nil {
		return 0, err
	}

	stats := domain.NewLookupStats()
	for field, raw := range values {
		var n int64
		if _, err := fmt.Sscan(raw, &n); err == nil {
			stats.Add(field, n)
		}
	}
	return stats.Total, nil
}
