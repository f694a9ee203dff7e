package notification

import (
	"context"
	"time"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// EventKind は通知イベントの種別を表す
type EventKind string

const (
	KindApproved  EventKind = "reservation_approved"
	KindRejected  EventKind = "reservation_rejected"
	KindCancelled EventKind = "reservation_cancelled"
)

// Event は状態遷移後に外部へ通知されるイベントを表す
// 遷移が永続化された後に少なくとも1回の送信が試みられる
// 配送やリトライの保証は通知側コラボレーターの責務
type Event struct {
	ReservationID string
	Kind          EventKind
	Date          slot.Date
	Time          slot.TimeOfDay
	OccurredAt    time.Time
}

// Dispatcher は通知送信のインターフェース
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}
