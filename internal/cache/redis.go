package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"dernek-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	debtSummaryKey    = "debt:summary:org"
	debtSummaryKeyFmt = "debt:summary:member:%d"
	summaryTTL        = 60 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional; every helper
// degrades to a no-op when Redis is unavailable.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

func summaryKey(memberID int) string {
	if memberID == 0 {
		return debtSummaryKey
	}
	return fmt.Sprintf(debtSummaryKeyFmt, memberID)
}

// GetDebtSummary returns a cached aggregator result if present
func GetDebtSummary(ctx context.Context, memberID int) (*models.DebtSummary, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, summaryKey(memberID)).Bytes()
	if err != nil {
		return nil, false
	}
	var summary models.DebtSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// SetDebtSummary caches an aggregator result with a short TTL
func SetDebtSummary(ctx context.Context, memberID int, summary *models.DebtSummary) {
	if client == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := client.Set(ctx, summaryKey(memberID), data, summaryTTL).Err(); err != nil {
		log.Printf("[Redis] Failed to cache debt summary: %v", err)
	}
}

// InvalidateDebtSummaries drops cached summaries after a posting or edit.
// The per-member key is dropped alongside the organization-wide one.
func InvalidateDebtSummaries(ctx context.Context, memberID int) {
	if client == nil {
		return
	}
	keys := []string{debtSummaryKey}
	if memberID != 0 {
		keys = append(keys, summaryKey(memberID))
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[Redis] Failed to invalidate debt summary: %v", err)
	}
}
