//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/accessibility-microservice/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", 0, "origin latitude (0 keeps the current origin)")
	lon := flag.Float64("lon", 0, "origin longitude")
	metric := flag.String("metric", "", "TRAVEL_TIME, BOARDINGS or WALK_DISTANCE")
	maxTime := flag.Int("max-time", 0, "max travel time in seconds")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.RefreshRequestEvent{RequestID: uuid.New()}
	patch := &domain.ParametersPatch{MetricType: *metric, MaxTimeSec: *maxTime}
	if *lat != 0 || *lon != 0 {
		patch.Origin = &domain.Coordinate{Lat: *lat, Lon: *lon}
	}
	if *patch != (domain.ParametersPatch{}) {
		event.Parameters = patch
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Читаем ответы только после нашей публикации
	lastID := "0-0"
	if last, err := client.XRevRangeN(ctx, domain.StreamRefreshDone, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamRefreshRequest,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamRefreshRequest)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Payload: %s\n", data)

	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamRefreshDone)

	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamRefreshDone, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read responses: %v", err)
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var done domain.RefreshDoneEvent
				if err := json.Unmarshal([]byte(dataStr), &done); err != nil || done.RequestID != event.RequestID {
					continue
				}

				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("\nResponse received:\n%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}
