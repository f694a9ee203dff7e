package slotlock

import (
	"context"
	"errors"
	"time"
)

// Slotlock のエラー定義
var (
	ErrNotAcquired = errors.New("予約枠のロックを取得できませんでした")
)

// Lock は取得済みの枠ロックを表す
type Lock interface {
	// Release はロックを解放する
	Release(ctx context.Context) error
}

// Manager は枠キー単位の排他区間を管理するインターフェース
// 同一キーへの操作は取得順に直列化され、異なるキー同士は互いをブロックしない
type Manager interface {
	// Acquire は指定キーのロックを取得する
	// maxWait を超えても取得できない場合は ErrNotAcquired を返す
	Acquire(ctx context.Context, key string, ttl, maxWait time.Duration) (Lock, error)
}
