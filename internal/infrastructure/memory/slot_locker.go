package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sanosuguru/venue-reservation/internal/domain/slotlock"
)

// SlotLocker はプロセス内の枠キー単位ミューテックス
// 単一プロセス構成やテストで Redis 分散ロックの代わりに使う
// キーごとに容量1のチャネルを持ち、トークン送信の成否で排他を表現する
type SlotLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewSlotLocker は新しいSlotLockerを作成する
func NewSlotLocker() *SlotLocker {
	return &SlotLocker{slots: make(map[string]chan struct{})}
}

// Acquire は指定キーのロックを取得する
// maxWait を超えても取得できない場合は ErrNotAcquired を返す
// ttl はプロセス内ロックでは使用しない（保持者の解放のみで解放される）
func (l *SlotLocker) Acquire(ctx context.Context, key string, ttl, maxWait time.Duration) (slotlock.Lock, error) {
	ch := l.channel(key)

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return &memoryLock{ch: ch}, nil
	case <-timer.C:
		return nil, slotlock.ErrNotAcquired
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *SlotLocker) channel(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

type memoryLock struct {
	ch   chan struct{}
	once sync.Once
}

// Release はロックを解放する
// 複数回呼んでも安全（2回目以降は何もしない）
func (m *memoryLock) Release(ctx context.Context) error {
	m.once.Do(func() { <-m.ch })
	return nil
}

var _ slotlock.Manager = (*SlotLocker)(nil)
