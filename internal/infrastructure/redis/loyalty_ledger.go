package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/venue-reservation/internal/domain/loyalty"
)

// 加算イベントを積むキュー
const accrualQueue = "loyalty:accruals"

// LoyaltyLedger はロイヤルティ加算イベントをRedisのキューに積む
// ティア計算等の集計は外部のマーケティング集計が消費して行う
type LoyaltyLedger struct {
	client *redis.Client
}

// NewLoyaltyLedger は新しいLoyaltyLedgerを作成する
func NewLoyaltyLedger(client *redis.Client) *LoyaltyLedger {
	return &LoyaltyLedger{client: client}
}

// Accrue は加算イベントをキューに追加する
func (l *LoyaltyLedger) Accrue(ctx context.Context, a loyalty.Accrual) error {
	payload, err := json.Marshal(map[string]interface{}{
		"reservation_id": a.ReservationID,
		"customer_email": a.CustomerEmail,
		"amount":         a.Amount,
		"currency":       a.Currency,
		"completed_at":   a.CompletedAt,
	})
	if err != nil {
		return fmt.Errorf("加算イベントのエンコードに失敗: %w", err)
	}
	if err := l.client.RPush(ctx, accrualQueue, payload).Err(); err != nil {
		return fmt.Errorf("加算イベントの追加に失敗: %w", err)
	}
	return nil
}

var _ loyalty.Accruer = (*LoyaltyLedger)(nil)
