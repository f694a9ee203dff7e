package memory

import (
	"context"

	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
)

// TxManager はインメモリリポジトリ用のトランザクションマネージャー
// リポジトリ自体がミューテックスで整合性を保つため、トランザクションは何もしない
type TxManager struct{}

// NewTxManager は新しいTxManagerを作成する
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Begin は新しいトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	return noopTx{}, nil
}

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var _ transaction.Manager = (*TxManager)(nil)
