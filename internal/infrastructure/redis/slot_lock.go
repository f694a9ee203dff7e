package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/venue-reservation/internal/domain/slotlock"
)

// 取得リトライの間隔
const retryDelay = 50 * time.Millisecond

// SlotLock は Redis を使用した枠の分散ロック
type SlotLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// LockManager は枠キー単位の分散ロックを管理する
// 複数プロセス構成でも同一枠への受理・遷移を直列化する
type LockManager struct {
	client *redis.Client
}

// NewLockManager は新しいLockManagerを作成する
func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// Acquire は指定キーのロックを maxWait を上限に取得する
// SetNX によりキーが存在しない場合のみ取得できる
func (m *LockManager) Acquire(ctx context.Context, key string, ttl, maxWait time.Duration) (slotlock.Lock, error) {
	deadline := time.Now().Add(maxWait)
	for {
		lock, err := m.tryAcquire(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, slotlock.ErrNotAcquired) {
			return nil, err
		}
		if time.Now().Add(retryDelay).After(deadline) {
			return nil, slotlock.ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

func (m *LockManager) tryAcquire(ctx context.Context, key string, ttl time.Duration) (*SlotLock, error) {
	lockKey := fmt.Sprintf("lock:slot:%s", key)
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, slotlock.ErrNotAcquired
	}

	return &SlotLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// Release はロックを解放する（Lua スクリプトで所有者確認と削除をアトミックに実行）
func (l *SlotLock) Release(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	if err := l.client.Eval(ctx, script, []string{l.key}, l.value).Err(); err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	return nil
}

// Extend はロックの有効期限を延長する
func (l *SlotLock) Extend(ctx context.Context, ttl time.Duration) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	result, err := l.client.Eval(ctx, script, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return errors.New("ロックの所有者ではありません")
	}
	l.ttl = ttl
	return nil
}

var _ slotlock.Manager = (*LockManager)(nil)
