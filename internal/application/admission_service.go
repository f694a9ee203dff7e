package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/availability"
	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/domain/slotlock"
	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
	"github.com/sanosuguru/venue-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/venue-reservation/internal/validation"
)

// AdmissionService は予約リクエストの受理を司る並行性境界
// 検証 → 競合判定 → 永続化を枠キー単位の排他区間の中で一体として実行する
type AdmissionService struct {
	repo      reservation.Repository
	txManager transaction.Manager
	index     *availability.Index
	locker    slotlock.Manager
	validator *validation.RequestValidator
	cache     AvailabilityCache
	metrics   *metrics.Metrics
	lockTTL   time.Duration
	lockWait  time.Duration
}

// NewAdmissionService は新しいAdmissionServiceを作成する
// cache と metrics は nil 許容
func NewAdmissionService(
	repo reservation.Repository,
	txManager transaction.Manager,
	index *availability.Index,
	locker slotlock.Manager,
	validator *validation.RequestValidator,
	cache AvailabilityCache,
	m *metrics.Metrics,
	lockTTL, lockWait time.Duration,
) *AdmissionService {
	return &AdmissionService{
		repo:      repo,
		txManager: txManager,
		index:     index,
		locker:    locker,
		validator: validator,
		cache:     cache,
		metrics:   m,
		lockTTL:   lockTTL,
		lockWait:  lockWait,
	}
}

// Admit は予約リクエストを検証し、競合がなければ REQUESTED 状態で受理する
//
// プロトコル:
//  1. 構造検証（失敗時は ValidationError）
//  2. (日付,時刻) キーの排他区間を取得（上限付き待機、超過時は ErrAdmissionTimeout）
//  3. ストアから当日分を読み直して候補枠のバケットを再構築し、競合判定
//  4. 受理ならトランザクションで永続化しインデックスを更新（失敗時は巻き戻し）
//  5. 排他区間を解放して結果を返す
func (s *AdmissionService) Admit(ctx context.Context, req validation.Request) (*reservation.Reservation, error) {
	draft, fieldErrs := s.validator.Validate(req)
	if len(fieldErrs) > 0 {
		s.countAdmission("validation_failed")
		return nil, &ValidationError{Fields: fieldErrs}
	}

	key := slot.NewKey(draft.Date, draft.Time)
	lock, err := s.acquireSlotLock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	// ロック保持中にストアを真実の源として候補枠のバケットを再構築する
	dayReservations, err := s.repo.GetByDate(ctx, draft.Date)
	if err != nil {
		s.countAdmission("store_error")
		return nil, &StoreError{Cause: err}
	}
	s.index.RebuildKey(key, dayReservations)

	decision := availability.Resolve(draft.Date, draft.Time, s.index)
	if !decision.Admit {
		s.countAdmission("conflict")
		return nil, &SlotConflictError{
			ConflictID: decision.ConflictID,
			Date:       decision.Date,
			Time:       decision.Time,
		}
	}

	now := time.Now()
	draft.ID = uuid.New().String()
	draft.Status = reservation.StatusRequested
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := s.persist(ctx, draft, key); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, draft.Date)
	s.countAdmission("success")
	s.gaugeActive(reservation.StatusRequested, 1)

	logger.Info("予約を受理しました",
		zap.String("reservation_id", draft.ID),
		zap.String("resource_type", string(draft.ResourceType)),
		zap.String("date", string(draft.Date)),
		zap.String("time", string(draft.Time)),
	)
	return draft, nil
}

// persist は予約の永続化とインデックス更新を一体で行う
// ストア障害時はインデックスを巻き戻し、ストアに存在しない予約が見えないようにする
func (s *AdmissionService) persist(ctx context.Context, r *reservation.Reservation, key slot.Key) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countAdmission("store_error")
		return &StoreError{Cause: err}
	}

	s.index.Occupy(key, r.ID)
	if err := s.repo.Create(ctx, tx, r); err != nil {
		tx.Rollback()
		s.index.Release(key, r.ID)
		if errors.Is(err, reservation.ErrDuplicateActiveSlot) {
			// ストア側の一意制約による二重防衛に当たった場合も競合として返す
			s.countAdmission("conflict")
			return &SlotConflictError{Date: r.Date, Time: r.Time}
		}
		s.countAdmission("store_error")
		return &StoreError{Cause: err}
	}
	if err := tx.Commit(); err != nil {
		s.index.Release(key, r.ID)
		s.countAdmission("store_error")
		return &StoreError{Cause: err}
	}
	return nil
}

// acquireSlotLock は枠ロックを取得し、取得時間をメトリクスに記録する
func (s *AdmissionService) acquireSlotLock(ctx context.Context, key slot.Key) (slotlock.Lock, error) {
	start := time.Now()
	lock, err := s.locker.Acquire(ctx, string(key), s.lockTTL, s.lockWait)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.SlotLockDuration.WithLabelValues("acquire", status).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.countAdmission("lock_timeout")
		if errors.Is(err, slotlock.ErrNotAcquired) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrAdmissionTimeout
		}
		return nil, &StoreError{Cause: err}
	}
	return lock, nil
}

func (s *AdmissionService) invalidateCache(ctx context.Context, date slot.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, date); err != nil {
		logger.Warn("空き枠キャッシュの無効化に失敗", zap.String("date", string(date)), zap.Error(err))
	}
}

func (s *AdmissionService) countAdmission(outcome string) {
	if s.metrics != nil {
		s.metrics.AdmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *AdmissionService) gaugeActive(status reservation.Status, delta float64) {
	if s.metrics != nil {
		s.metrics.ActiveReservations.WithLabelValues(string(status)).Add(delta)
	}
}
