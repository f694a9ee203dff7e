package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/availability"
	"github.com/sanosuguru/venue-reservation/internal/domain/loyalty"
	"github.com/sanosuguru/venue-reservation/internal/domain/notification"
	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/domain/slotlock"
	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
	"github.com/sanosuguru/venue-reservation/internal/pkg/metrics"
)

// LifecycleService は既存予約の状態遷移を司る
// 遷移は受理と同じ枠キー単位の排他区間を取得するため、
// 承認が同一枠への新規受理と競合することはない
type LifecycleService struct {
	repo      reservation.Repository
	txManager transaction.Manager
	index     *availability.Index
	locker    slotlock.Manager
	notifier  notification.Dispatcher
	accruer   loyalty.Accruer
	cache     AvailabilityCache
	metrics   *metrics.Metrics
	loc       *time.Location
	lockTTL   time.Duration
	lockWait  time.Duration
}

// NewLifecycleService は新しいLifecycleServiceを作成する
// notifier / accruer / cache / metrics は nil 許容
func NewLifecycleService(
	repo reservation.Repository,
	txManager transaction.Manager,
	index *availability.Index,
	locker slotlock.Manager,
	notifier notification.Dispatcher,
	accruer loyalty.Accruer,
	cache AvailabilityCache,
	m *metrics.Metrics,
	loc *time.Location,
	lockTTL, lockWait time.Duration,
) *LifecycleService {
	return &LifecycleService{
		repo:      repo,
		txManager: txManager,
		index:     index,
		locker:    locker,
		notifier:  notifier,
		accruer:   accruer,
		cache:     cache,
		metrics:   m,
		loc:       loc,
		lockTTL:   lockTTL,
		lockWait:  lockWait,
	}
}

// Approve は予約を承認する（管理者操作）
// 受理時から時間が経過している可能性があるため、ロック保持中に枠の空きを再確認する
func (s *LifecycleService) Approve(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, unlock, err := s.lockAndFetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	key := res.SlotKey()
	dayReservations, err := s.repo.GetByDate(ctx, res.Date)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	s.index.RebuildKey(key, dayReservations)
	for _, occupant := range s.index.Occupants(key) {
		if occupant != res.ID {
			return nil, &SlotConflictError{ConflictID: occupant, Date: res.Date, Time: res.Time}
		}
	}

	if err := res.Approve(); err != nil {
		return nil, err
	}
	if err := s.persistUpdate(ctx, res); err != nil {
		return nil, err
	}

	s.gaugeActive(reservation.StatusRequested, -1)
	s.gaugeActive(reservation.StatusApproved, 1)
	s.dispatch(ctx, res, notification.KindApproved)
	return res, nil
}

// Reject は予約を却下し、枠を解放する（管理者操作）
func (s *LifecycleService) Reject(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, unlock, err := s.lockAndFetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := res.Reject(); err != nil {
		return nil, err
	}
	if err := s.persistUpdate(ctx, res); err != nil {
		return nil, err
	}

	s.index.Release(res.SlotKey(), res.ID)
	s.invalidateCache(ctx, res.Date)
	s.gaugeActive(reservation.StatusRequested, -1)
	s.dispatch(ctx, res, notification.KindRejected)
	return res, nil
}

// Cancel は予約をキャンセルし、枠を解放する（予約者または管理者操作）
// 予約枠の開始時刻前のみ許可される
func (s *LifecycleService) Cancel(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, unlock, err := s.lockAndFetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prev := res.Status
	if err := res.Cancel(time.Now(), s.loc); err != nil {
		return nil, err
	}
	if err := s.persistUpdate(ctx, res); err != nil {
		return nil, err
	}

	s.index.Release(res.SlotKey(), res.ID)
	s.invalidateCache(ctx, res.Date)
	s.gaugeActive(prev, -1)
	s.dispatch(ctx, res, notification.KindCancelled)
	return res, nil
}

// Complete は予約を完了にする（システムまたは管理者操作）
// 予約枠の開始時刻を過ぎた承認済み予約のみが対象
// 支払済みの金額情報があればロイヤルティ加算を依頼する
func (s *LifecycleService) Complete(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, unlock, err := s.lockAndFetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := res.Complete(time.Now(), s.loc); err != nil {
		return nil, err
	}
	if err := s.persistUpdate(ctx, res); err != nil {
		return nil, err
	}

	s.index.Release(res.SlotKey(), res.ID)
	s.gaugeActive(reservation.StatusApproved, -1)
	s.accrue(ctx, res)
	return res, nil
}

// CompleteDue は予約枠の開始時刻を過ぎた承認済み予約をまとめて完了にする
// 完了ワーカーから定期的に呼ばれる
func (s *LifecycleService) CompleteDue(ctx context.Context) (int, error) {
	now := time.Now().In(s.loc)
	due, err := s.repo.GetApprovedBefore(ctx, slot.Date(now.Format("2006-01-02")), slot.TimeOfDay(now.Format("15:04")))
	if err != nil {
		return 0, fmt.Errorf("完了対象の取得に失敗: %w", err)
	}

	completed := 0
	for _, res := range due {
		if _, err := s.Complete(ctx, res.ID); err != nil {
			logger.Warn("予約の自動完了に失敗",
				zap.String("reservation_id", res.ID),
				zap.Error(err),
			)
			continue
		}
		completed++
	}
	return completed, nil
}

// GetReservation はIDから予約を取得する
func (s *LifecycleService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByCustomer は予約者のメールアドレスから予約一覧を取得する
func (s *LifecycleService) ListByCustomer(ctx context.Context, email string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetByCustomer(ctx, email, limit, offset)
}

// ListByDateRange は期間と状態で予約を絞り込んで取得する
// ロイヤルティ/マーケティング集計が読む照会面でもある
func (s *LifecycleService) ListByDateRange(ctx context.Context, from, to slot.Date, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	return s.repo.GetByDateRange(ctx, from, to, statuses)
}

// lockAndFetch は予約の枠ロックを取得し、ロック保持中の最新状態を返す
// 返却された unlock は必ず呼び出すこと
func (s *LifecycleService) lockAndFetch(ctx context.Context, id string) (*reservation.Reservation, func(), error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	lock, err := s.locker.Acquire(ctx, string(res.SlotKey()), s.lockTTL, s.lockWait)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		if errors.Is(err, slotlock.ErrNotAcquired) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, ErrAdmissionTimeout
		}
		return nil, nil, &StoreError{Cause: err}
	}

	// ロック取得前に状態が変わっている可能性があるため読み直す
	res, err = s.repo.GetByID(ctx, id)
	if err != nil {
		lock.Release(ctx)
		return nil, nil, err
	}
	return res, func() { lock.Release(ctx) }, nil
}

func (s *LifecycleService) persistUpdate(ctx context.Context, res *reservation.Reservation) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return &StoreError{Cause: err}
	}
	if err := s.repo.Update(ctx, tx, res); err != nil {
		tx.Rollback()
		return &StoreError{Cause: err}
	}
	if err := tx.Commit(); err != nil {
		return &StoreError{Cause: err}
	}
	return nil
}

// dispatch は永続化済みの遷移について通知送信を試みる
// 送信失敗は遷移を巻き戻さずログに残す（配送保証は通知側の責務）
func (s *LifecycleService) dispatch(ctx context.Context, res *reservation.Reservation, kind notification.EventKind) {
	if s.notifier == nil {
		return
	}
	ev := notification.Event{
		ReservationID: res.ID,
		Kind:          kind,
		Date:          res.Date,
		Time:          res.Time,
		OccurredAt:    time.Now(),
	}
	if err := s.notifier.Dispatch(ctx, ev); err != nil {
		logger.Warn("通知送信に失敗",
			zap.String("reservation_id", res.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *LifecycleService) accrue(ctx context.Context, res *reservation.Reservation) {
	if s.accruer == nil {
		return
	}
	amount, paid := res.PaidAmount()
	if !paid {
		return
	}
	a := loyalty.Accrual{
		ReservationID: res.ID,
		CustomerEmail: res.Contact.Email,
		Amount:        amount,
		Currency:      res.Financial.Currency,
		CompletedAt:   res.UpdatedAt,
	}
	if err := s.accruer.Accrue(ctx, a); err != nil {
		logger.Warn("ロイヤルティ加算に失敗",
			zap.String("reservation_id", res.ID),
			zap.Error(err),
		)
	}
}

func (s *LifecycleService) invalidateCache(ctx context.Context, date slot.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, date); err != nil {
		logger.Warn("空き枠キャッシュの無効化に失敗", zap.String("date", string(date)), zap.Error(err))
	}
}

func (s *LifecycleService) gaugeActive(status reservation.Status, delta float64) {
	if s.metrics != nil {
		s.metrics.ActiveReservations.WithLabelValues(string(status)).Add(delta)
	}
}
