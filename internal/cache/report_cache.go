package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix     = "report"
	reportScanBatchSize = 100
)

// ReportFilter identifies one cached report variant. Zero-valued fields
// do not participate in the key.
type ReportFilter struct {
	Report       string
	SnapshotDate string
	WindowDays   int
	Counterparty string
	NameContains string
}

// ReportCache is a read-through cache for computed reports. Values are
// stored as JSON under a hash of the filter.
type ReportCache interface {
	Get(ctx context.Context, filter ReportFilter, dest interface{}) (bool, error)
	Set(ctx context.Context, filter ReportFilter, value interface{}) error
	Invalidate(ctx context.Context, filter ReportFilter) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) Get(ctx context.Context, filter ReportFilter, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(filter)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode report cache: %w", err)
	}
	return true, nil
}

func (c *redisReportCache) Set(ctx context.Context, filter ReportFilter, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context, filter ReportFilter) error {
	return c.client.Del(ctx, buildReportKey(filter)).Err()
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, reportScanBatchSize)
}

func (n *noopReportCache) Get(ctx context.Context, filter ReportFilter, dest interface{}) (bool, error) {
	return false, nil
}

func (n *noopReportCache) Set(ctx context.Context, filter ReportFilter, value interface{}) error {
	return nil
}

func (n *noopReportCache) Invalidate(ctx context.Context, filter ReportFilter) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(filter ReportFilter) string {
	return fmt.Sprintf("%s:%s:%s", reportKeyPrefix, filter.Report, reportFilterHash(filter))
}

func reportFilterHash(filter ReportFilter) string {
	parts := []string{}

	if filter.SnapshotDate != "" {
		parts = append(parts, "snapshot_date="+strings.TrimSpace(filter.SnapshotDate))
	}
	if filter.WindowDays > 0 {
		parts = append(parts, fmt.Sprintf("window_days=%d", filter.WindowDays))
	}
	if filter.Counterparty != "" {
		parts = append(parts, "counterparty="+strings.TrimSpace(filter.Counterparty))
	}
	if filter.NameContains != "" {
		parts = append(parts, "name_contains="+strings.ToLower(strings.TrimSpace(filter.NameContains)))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
