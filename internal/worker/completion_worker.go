package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
	"github.com/sanosuguru/venue-reservation/internal/pkg/metrics"
)

// ReservationCompleter は開始時刻を過ぎた承認済み予約を完了にするインターフェース
type ReservationCompleter interface {
	CompleteDue(ctx context.Context) (int, error)
}

// CompletionWorker は承認済み予約を定期的に完了処理するワーカー
type CompletionWorker struct {
	lifecycle ReservationCompleter
	interval  time.Duration
	metrics   *metrics.Metrics
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewCompletionWorker は新しいワーカーを作成する
// metrics は nil 許容
func NewCompletionWorker(lifecycle ReservationCompleter, interval time.Duration, m *metrics.Metrics) *CompletionWorker {
	return &CompletionWorker{
		lifecycle: lifecycle,
		interval:  interval,
		metrics:   m,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はワーカーを開始する
func (w *CompletionWorker) Start(ctx context.Context) {
	logger.Info("予約完了ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("予約完了ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("予約完了ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop はワーカーを停止し、進行中の処理の完了を待つ
func (w *CompletionWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *CompletionWorker) runOnce(ctx context.Context) {
	completed, err := w.lifecycle.CompleteDue(ctx)
	if err != nil {
		logger.Error("予約完了処理に失敗", zap.Error(err))
		return
	}
	if completed > 0 {
		if w.metrics != nil {
			w.metrics.CompletionsTotal.Add(float64(completed))
		}
		logger.Info("予約を完了処理しました", zap.Int("count", completed))
	}
}
