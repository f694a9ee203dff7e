// Package transaction は永続化トランザクションの抽象化を提供する
// 予約の受理と状態遷移はストア書き込みとインデックス更新を一体で行うため、
// アプリケーション層はこの境界だけを見てコミット/ロールバックを制御する
package transaction

import "context"

// Tx は進行中のトランザクションを表す
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager はトランザクションの開始点
// sqlx 実装は infrastructure/postgres、テスト用の no-op 実装は infrastructure/memory
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}
