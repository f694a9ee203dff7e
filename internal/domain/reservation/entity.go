package reservation

import (
	"time"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// Status は予約の状態を表す
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid は状態が定義済みかを返す
func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal は終端状態（これ以上遷移できない状態）かを返す
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Contact は予約者の連絡先を表す
type Contact struct {
	Email string
	Phone string
}

// Financial は外部で計算済みの金額情報を表す
// スケジューリングには影響せず、完了時のロイヤルティ加算のみに使われる
type Financial struct {
	Amount   int
	Currency string
	Paid     bool
}

// Reservation は予約エンティティを表す
type Reservation struct {
	ID              string
	ResourceType    slot.ResourceType
	Date            slot.Date
	Time            slot.TimeOfDay
	GuestCount      *int
	Contact         Contact
	Title           string
	SpecialRequests string
	Financial       *Financial
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SlotKey は予約が占有する枠キーを返す
func (r *Reservation) SlotKey() slot.Key {
	return slot.NewKey(r.Date, r.Time)
}

// Occupies は予約が枠を占有しているか（requested/approved）を返す
// rejected/cancelled/completed は枠を占有しない
func (r *Reservation) Occupies() bool {
	return r.Status == StatusRequested || r.Status == StatusApproved
}

// ScheduledAt は予約枠の開始時刻を施設タイムゾーンで返す
func (r *Reservation) ScheduledAt(loc *time.Location) time.Time {
	return slot.ScheduledAt(r.Date, r.Time, loc)
}

// Approve は予約を承認状態に遷移する
// 枠の再チェックは呼び出し側（枠ロック保持中）の責務
func (r *Reservation) Approve() error {
	if r.Status != StatusRequested {
		return &InvalidTransitionError{From: r.Status, To: StatusApproved}
	}
	r.Status = StatusApproved
	r.UpdatedAt = time.Now()
	return nil
}

// Reject は予約を却下状態に遷移し、枠を解放する
func (r *Reservation) Reject() error {
	if r.Status != StatusRequested {
		return &InvalidTransitionError{From: r.Status, To: StatusRejected}
	}
	r.Status = StatusRejected
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は予約をキャンセル状態に遷移し、枠を解放する
// 予約枠の開始時刻を過ぎている場合はキャンセルできない
func (r *Reservation) Cancel(now time.Time, loc *time.Location) error {
	if r.Status != StatusRequested && r.Status != StatusApproved {
		return &InvalidTransitionError{From: r.Status, To: StatusCancelled}
	}
	if !now.Before(r.ScheduledAt(loc)) {
		return ErrSchedulePassed
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Complete は予約を完了状態に遷移する
// 予約枠の開始時刻を過ぎるまで完了にはできない
func (r *Reservation) Complete(now time.Time, loc *time.Location) error {
	if r.Status != StatusApproved {
		return &InvalidTransitionError{From: r.Status, To: StatusCompleted}
	}
	if now.Before(r.ScheduledAt(loc)) {
		return ErrScheduleNotReached
	}
	r.Status = StatusCompleted
	r.UpdatedAt = time.Now()
	return nil
}

// PaidAmount はロイヤルティ加算対象の支払済み金額を返す
// 支払済みの金額情報がない場合は0とfalseを返す
func (r *Reservation) PaidAmount() (int, bool) {
	if r.Financial == nil || !r.Financial.Paid {
		return 0, false
	}
	return r.Financial.Amount, true
}
