package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
	"github.com/sanosuguru/venue-reservation/internal/domain/transaction"
)

// ReservationRepository はテストおよびローカル実行向けのインメモリ実装
// PostgreSQL 実装と同じ契約（即時可視性、枠占有の一意制約）を満たす
type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]*reservation.Reservation
}

// NewReservationRepository は新しいインメモリリポジトリを作成する
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{reservations: make(map[string]*reservation.Reservation)}
}

// Create は新しい予約を作成する
// 同じ枠を占有する予約が既にある場合は ErrDuplicateActiveSlot を返す
// （PostgreSQL の部分一意インデックスと同じ二重防衛）
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Occupies() {
		key := res.SlotKey()
		for _, existing := range r.reservations {
			if existing.Occupies() && existing.SlotKey() == key {
				return reservation.ErrDuplicateActiveSlot
			}
		}
	}
	r.reservations[res.ID] = clone(res)
	return nil
}

// GetByID はIDから予約を取得する
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return clone(res), nil
}

// Update は予約を更新する
func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[res.ID]; !ok {
		return reservation.ErrReservationNotFound
	}
	r.reservations[res.ID] = clone(res)
	return nil
}

// GetByDate は指定日の全予約を取得する
func (r *ReservationRepository) GetByDate(ctx context.Context, date slot.Date) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*reservation.Reservation
	for _, res := range r.reservations {
		if res.Date == date {
			result = append(result, clone(res))
		}
	}
	sortByScheduleAsc(result)
	return result, nil
}

// GetByDateRange は期間と状態で予約を絞り込んで取得する
func (r *ReservationRepository) GetByDateRange(ctx context.Context, from, to slot.Date, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[reservation.Status]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	var result []*reservation.Reservation
	for _, res := range r.reservations {
		if res.Date.Before(from) || to.Before(res.Date) {
			continue
		}
		if len(wanted) > 0 && !wanted[res.Status] {
			continue
		}
		result = append(result, clone(res))
	}
	sortByScheduleAsc(result)
	return result, nil
}

// GetByCustomer は予約者のメールアドレスから予約一覧を取得する（作成日時の降順）
func (r *ReservationRepository) GetByCustomer(ctx context.Context, email string, limit, offset int) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*reservation.Reservation
	for _, res := range r.reservations {
		if res.Contact.Email == email {
			matched = append(matched, clone(res))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// GetApprovedBefore は指定時点より前の枠を持つ承認済み予約を取得する
func (r *ReservationRepository) GetApprovedBefore(ctx context.Context, date slot.Date, t slot.TimeOfDay) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*reservation.Reservation
	for _, res := range r.reservations {
		if res.Status != reservation.StatusApproved {
			continue
		}
		if res.Date.Before(date) || (res.Date == date && res.Time.Before(t)) {
			result = append(result, clone(res))
		}
	}
	sortByScheduleAsc(result)
	return result, nil
}

func sortByScheduleAsc(list []*reservation.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].Time.Before(list[j].Time)
	})
}

func clone(res *reservation.Reservation) *reservation.Reservation {
	c := *res
	if res.GuestCount != nil {
		n := *res.GuestCount
		c.GuestCount = &n
	}
	if res.Financial != nil {
		f := *res.Financial
		c.Financial = &f
	}
	return &c
}

var _ reservation.Repository = (*ReservationRepository)(nil)
