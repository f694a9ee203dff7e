package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/venue-reservation/internal/application"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は日単位の空き枠一覧をRedisにキャッシュする
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheを作成する
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// GetFreeSlots は指定日の空き枠一覧をキャッシュから取得する
func (c *AvailabilityCache) GetFreeSlots(ctx context.Context, date slot.Date) ([]slot.TimeOfDay, error) {
	val, err := c.client.Get(ctx, c.key(date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var free []slot.TimeOfDay
	if err := json.Unmarshal([]byte(val), &free); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return free, nil
}

// SetFreeSlots は指定日の空き枠一覧をキャッシュに保存する
func (c *AvailabilityCache) SetFreeSlots(ctx context.Context, date slot.Date, free []slot.TimeOfDay) error {
	data, err := json.Marshal(free)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は指定日のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, date slot.Date) error {
	if err := c.client.Del(ctx, c.key(date)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(date slot.Date) string {
	return fmt.Sprintf("availability:free:%s", date)
}

var _ application.AvailabilityCache = (*AvailabilityCache)(nil)
