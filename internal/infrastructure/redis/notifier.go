package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/venue-reservation/internal/domain/notification"
)

// 通知イベントの配信チャネル
const notificationChannel = "reservations:events"

// Notifier は状態遷移イベントをRedis Pub/Subで配信する
// 購読側（メール送信等の通知コラボレーター）の配送保証はここでは扱わない
type Notifier struct {
	client *redis.Client
}

// NewNotifier は新しいNotifierを作成する
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// Dispatch はイベントをJSONで配信する
func (n *Notifier) Dispatch(ctx context.Context, ev notification.Event) error {
	payload, err := json.Marshal(map[string]interface{}{
		"reservation_id": ev.ReservationID,
		"kind":           string(ev.Kind),
		"date":           string(ev.Date),
		"time":           string(ev.Time),
		"occurred_at":    ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("通知イベントのエンコードに失敗: %w", err)
	}
	if err := n.client.Publish(ctx, notificationChannel, payload).Err(); err != nil {
		return fmt.Errorf("通知イベントの配信に失敗: %w", err)
	}
	return nil
}

var _ notification.Dispatcher = (*Notifier)(nil)
