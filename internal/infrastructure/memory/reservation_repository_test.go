package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

func newReservation(id string, date slot.Date, tod slot.TimeOfDay, status reservation.Status) *reservation.Reservation {
	return &reservation.Reservation{
		ID:           id,
		ResourceType: slot.ResourceCafe,
		Date:         date,
		Time:         tod,
		Contact:      reservation.Contact{Email: "hanako@example.com", Phone: "09012345678"},
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestReservationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("作成した予約をIDで取得できる", func(t *testing.T) {
		repo := NewReservationRepository()
		res := newReservation("res-1", "2026-09-10", "14:00", reservation.StatusRequested)

		require.NoError(t, repo.Create(ctx, nil, res))
		stored, err := repo.GetByID(ctx, "res-1")
		require.NoError(t, err)
		assert.Equal(t, res.ID, stored.ID)
		assert.Equal(t, res.Status, stored.Status)
	})

	t.Run("占有中の枠への作成は一意制約エラーになる", func(t *testing.T) {
		repo := NewReservationRepository()
		require.NoError(t, repo.Create(ctx, nil, newReservation("res-1", "2026-09-10", "14:00", reservation.StatusApproved)))

		err := repo.Create(ctx, nil, newReservation("res-2", "2026-09-10", "14:00", reservation.StatusRequested))
		assert.ErrorIs(t, err, reservation.ErrDuplicateActiveSlot)
	})

	t.Run("終端状態の予約がある枠には作成できる", func(t *testing.T) {
		repo := NewReservationRepository()
		require.NoError(t, repo.Create(ctx, nil, newReservation("res-1", "2026-09-10", "14:00", reservation.StatusCancelled)))

		err := repo.Create(ctx, nil, newReservation("res-2", "2026-09-10", "14:00", reservation.StatusRequested))
		assert.NoError(t, err)
	})
}

func TestReservationRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("状態の更新が反映される", func(t *testing.T) {
		repo := NewReservationRepository()
		res := newReservation("res-1", "2026-09-10", "14:00", reservation.StatusRequested)
		require.NoError(t, repo.Create(ctx, nil, res))

		res.Status = reservation.StatusApproved
		require.NoError(t, repo.Update(ctx, nil, res))

		stored, err := repo.GetByID(ctx, "res-1")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusApproved, stored.Status)
	})

	t.Run("存在しない予約の更新はエラーになる", func(t *testing.T) {
		repo := NewReservationRepository()
		err := repo.Update(ctx, nil, newReservation("missing", "2026-09-10", "14:00", reservation.StatusApproved))
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	})
}

func TestReservationRepository_GetByID_ReturnsCopy(t *testing.T) {
	// 取得した予約への変更がストアに漏れないこと
	ctx := context.Background()
	repo := NewReservationRepository()
	res := newReservation("res-1", "2026-09-10", "14:00", reservation.StatusRequested)
	count := 5
	res.GuestCount = &count
	require.NoError(t, repo.Create(ctx, nil, res))

	fetched, err := repo.GetByID(ctx, "res-1")
	require.NoError(t, err)
	fetched.Status = reservation.StatusCompleted
	*fetched.GuestCount = 99

	stored, err := repo.GetByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusRequested, stored.Status)
	assert.Equal(t, 5, *stored.GuestCount)
}

func TestReservationRepository_GetByDate(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-1", "2026-09-10", "15:00", reservation.StatusRequested)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-2", "2026-09-10", "10:00", reservation.StatusCancelled)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-3", "2026-09-11", "10:00", reservation.StatusRequested)))

	list, err := repo.GetByDate(ctx, "2026-09-10")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "res-2", list[0].ID, "時刻の昇順で返る")
	assert.Equal(t, "res-1", list[1].ID)
}

func TestReservationRepository_GetByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-1", "2026-09-10", "14:00", reservation.StatusApproved)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-2", "2026-09-12", "14:00", reservation.StatusCompleted)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("res-3", "2026-09-20", "14:00", reservation.StatusApproved)))

	t.Run("期間のみの絞り込み", func(t *testing.T) {
		list, err := repo.GetByDateRange(ctx, "2026-09-10", "2026-09-15", nil)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("状態も合わせた絞り込み", func(t *testing.T) {
		list, err := repo.GetByDateRange(ctx, "2026-09-10", "2026-09-30", []reservation.Status{reservation.StatusApproved})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "res-1", list[0].ID)
		assert.Equal(t, "res-3", list[1].ID)
	})
}

func TestReservationRepository_GetByCustomer(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	base := time.Now()
	for i, id := range []string{"res-1", "res-2", "res-3"} {
		res := newReservation(id, "2026-09-10", slot.TimeOfDay([]string{"10:00", "11:00", "12:00"}[i]), reservation.StatusCancelled)
		res.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, nil, res))
	}
	other := newReservation("other", "2026-09-10", "13:00", reservation.StatusRequested)
	other.Contact.Email = "taro@example.com"
	require.NoError(t, repo.Create(ctx, nil, other))

	t.Run("作成日時の降順で返る", func(t *testing.T) {
		list, err := repo.GetByCustomer(ctx, "hanako@example.com", 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "res-3", list[0].ID)
	})

	t.Run("limitとoffsetが効く", func(t *testing.T) {
		list, err := repo.GetByCustomer(ctx, "hanako@example.com", 1, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "res-2", list[0].ID)
	})

	t.Run("offsetが件数を超えたら空", func(t *testing.T) {
		list, err := repo.GetByCustomer(ctx, "hanako@example.com", 10, 5)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestReservationRepository_GetApprovedBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	require.NoError(t, repo.Create(ctx, nil, newReservation("past-day", "2026-09-09", "18:00", reservation.StatusApproved)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("same-day-before", "2026-09-10", "11:00", reservation.StatusApproved)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("same-day-after", "2026-09-10", "15:00", reservation.StatusApproved)))
	require.NoError(t, repo.Create(ctx, nil, newReservation("not-approved", "2026-09-09", "10:00", reservation.StatusRequested)))

	list, err := repo.GetApprovedBefore(ctx, "2026-09-10", "12:00")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "past-day", list[0].ID)
	assert.Equal(t, "same-day-before", list[1].ID)
}
