package loyalty

import (
	"context"
	"time"
)

// Accrual は完了した支払済み予約に対するロイヤルティ加算を表す
// ティア計算等の集計は外部コラボレーターの責務
type Accrual struct {
	ReservationID string
	CustomerEmail string
	Amount        int
	Currency      string
	CompletedAt   time.Time
}

// Accruer はロイヤルティ加算のインターフェース
type Accruer interface {
	Accrue(ctx context.Context, a Accrual) error
}
