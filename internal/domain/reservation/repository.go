package reservation

import (
	"context"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 作成に成功した予約は同一プロセス内の後続の読み取りから即座に見える
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByDate は指定日の全予約を取得する
	// AvailabilityIndex の再構築に使われる
	GetByDate(ctx context.Context, date slot.Date) ([]*Reservation, error)

	// GetByDateRange は期間と状態で予約を絞り込んで取得する
	// statuses が空の場合は全状態を対象とする
	GetByDateRange(ctx context.Context, from, to slot.Date, statuses []Status) ([]*Reservation, error)

	// GetByCustomer は予約者のメールアドレスから予約一覧を取得する
	GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*Reservation, error)

	// GetApprovedBefore は指定時点より前の枠を持つ承認済み予約を取得する
	// 完了ワーカーの入力となる
	GetApprovedBefore(ctx context.Context, date slot.Date, t slot.TimeOfDay) ([]*Reservation, error)
}
