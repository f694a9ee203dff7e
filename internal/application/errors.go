package application

import (
	"errors"
	"fmt"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/validation"
)

// Application 層のエラー定義
// ValidationError と SlotConflictError は利用者に表示される想定内の結果であり、
// StoreError と ErrAdmissionTimeout はインフラ障害で自動リトライの対象となる
var (
	ErrAdmissionTimeout = errors.New("予約処理がタイムアウトしました")
)

// ValidationError は構造検証の失敗を表す
// フィールド単位のエラーをそのまま呼び出し側へ返す
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("入力値の検証に失敗しました（%d件のエラー）", len(e.Fields))
}

// SlotConflictError は枠の競合を表す
// 代替枠を提案できるよう競合した日時を持つが、相手予約者の個人情報は含めない
type SlotConflictError struct {
	ConflictID string
	Date       slot.Date
	Time       slot.TimeOfDay
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s %s の枠は既に予約されています", e.Date, e.Time)
}

// StoreError は永続化の失敗を表す
// 返却時点でインデックスは巻き戻し済みであることが保証される
type StoreError struct {
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("永続化に失敗しました: %v", e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
