package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/venue-reservation/internal/availability"
	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/pkg/logger"
)

// AvailabilityCache は日単位の空き枠一覧キャッシュのインターフェース
type AvailabilityCache interface {
	// GetFreeSlots はキャッシュから空き枠一覧を取得する（ミス時はエラー）
	GetFreeSlots(ctx context.Context, date slot.Date) ([]slot.TimeOfDay, error)
	// SetFreeSlots は空き枠一覧をキャッシュに保存する
	SetFreeSlots(ctx context.Context, date slot.Date, free []slot.TimeOfDay) error
	// Invalidate は指定日のキャッシュを無効化する
	Invalidate(ctx context.Context, date slot.Date) error
}

// AvailabilityService は予約フォーム向けの空き枠照会面を提供する
type AvailabilityService struct {
	repo  reservation.Repository
	index *availability.Index
	cache AvailabilityCache
	grid  slot.Grid
}

// NewAvailabilityService は新しいAvailabilityServiceを作成する
// cache は nil 許容
func NewAvailabilityService(repo reservation.Repository, index *availability.Index, cache AvailabilityCache, grid slot.Grid) *AvailabilityService {
	return &AvailabilityService{repo: repo, index: index, cache: cache, grid: grid}
}

// FreeSlots は指定日の空き枠を開始時刻順に返す
// キャッシュミス時はストアからインデックスを再構築して計算し、結果をキャッシュする
func (s *AvailabilityService) FreeSlots(ctx context.Context, date slot.Date) ([]slot.TimeOfDay, error) {
	if s.cache != nil {
		if free, err := s.cache.GetFreeSlots(ctx, date); err == nil {
			return free, nil
		}
	}

	dayReservations, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	s.index.RebuildDay(date, dayReservations)

	occupied := s.index.OccupiedTimes(date)
	free := make([]slot.TimeOfDay, 0)
	for _, t := range s.grid.Slots() {
		if !occupied[t] {
			free = append(free, t)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetFreeSlots(ctx, date, free); err != nil {
			logger.Warn("空き枠キャッシュの保存に失敗", zap.String("date", string(date)), zap.Error(err))
		}
	}
	return free, nil
}
