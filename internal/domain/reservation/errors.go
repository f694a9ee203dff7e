package reservation

import (
	"errors"
	"fmt"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrSchedulePassed      = errors.New("予約枠の開始時刻を過ぎているためキャンセルできません")
	ErrScheduleNotReached  = errors.New("予約枠の開始時刻になるまで完了にできません")
	ErrDuplicateActiveSlot = errors.New("同じ枠を占有する予約が既に存在します")
)

// InvalidTransitionError は許可されていない状態遷移を表す
// 二重クリック等による古いUI状態からの操作で発生しうる
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("無効な状態遷移です: %s から %s へは遷移できません", e.From, e.To)
}
