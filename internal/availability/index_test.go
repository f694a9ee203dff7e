package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

func newOccupyingReservation(id string, date slot.Date, t slot.TimeOfDay, status reservation.Status) *reservation.Reservation {
	return &reservation.Reservation{
		ID:           id,
		ResourceType: slot.ResourceCafe,
		Date:         date,
		Time:         t,
		Status:       status,
	}
}

func TestIndex_OccupyAndRelease(t *testing.T) {
	idx := NewIndex()
	key := slot.NewKey("2026-09-10", "14:00")

	assert.True(t, idx.IsFree(key))

	idx.Occupy(key, "res-1")
	assert.False(t, idx.IsFree(key))
	assert.Equal(t, []string{"res-1"}, idx.Occupants(key))

	idx.Release(key, "res-1")
	assert.True(t, idx.IsFree(key), "解放された枠は再び空きになる")
	assert.Empty(t, idx.Occupants(key))
}

func TestIndex_ReleaseUnknownIsNoop(t *testing.T) {
	idx := NewIndex()
	key := slot.NewKey("2026-09-10", "14:00")

	idx.Release(key, "missing")
	assert.True(t, idx.IsFree(key))
}

func TestIndex_RebuildKey(t *testing.T) {
	idx := NewIndex()
	date := slot.Date("2026-09-10")
	key := slot.NewKey(date, "14:00")

	// 再構築で消えるべき古いエントリ
	idx.Occupy(key, "stale")
	// 同じ日の別キーは別ロック配下で更新中かもしれないので触れない
	neighborKey := slot.NewKey(date, "15:00")
	idx.Occupy(neighborKey, "neighbor")

	idx.RebuildKey(key, []*reservation.Reservation{
		newOccupyingReservation("res-1", date, "14:00", reservation.StatusRequested),
		newOccupyingReservation("res-2", date, "15:00", reservation.StatusRequested),
		newOccupyingReservation("res-3", date, "14:00", reservation.StatusCancelled),
	})

	assert.Equal(t, []string{"res-1"}, idx.Occupants(key))
	assert.Equal(t, []string{"neighbor"}, idx.Occupants(neighborKey),
		"スナップショットに res-2 がいても隣のバケットは書き換えない")
}

func TestIndex_RebuildDay(t *testing.T) {
	idx := NewIndex()
	date := slot.Date("2026-09-10")

	// 再構築で消えるべき古いエントリ
	idx.Occupy(slot.NewKey(date, "10:00"), "stale")
	// 別日のエントリは影響を受けない
	otherKey := slot.NewKey("2026-09-11", "10:00")
	idx.Occupy(otherKey, "other-day")

	idx.RebuildDay(date, []*reservation.Reservation{
		newOccupyingReservation("res-1", date, "14:00", reservation.StatusRequested),
		newOccupyingReservation("res-2", date, "15:00", reservation.StatusApproved),
		newOccupyingReservation("res-3", date, "16:00", reservation.StatusCancelled),
		newOccupyingReservation("res-4", "2026-09-12", "14:00", reservation.StatusRequested),
	})

	assert.False(t, idx.IsFree(slot.NewKey(date, "14:00")))
	assert.False(t, idx.IsFree(slot.NewKey(date, "15:00")))
	assert.True(t, idx.IsFree(slot.NewKey(date, "16:00")), "終端状態の予約は枠を占有しない")
	assert.True(t, idx.IsFree(slot.NewKey(date, "10:00")), "古いエントリは再構築で消える")
	assert.False(t, idx.IsFree(otherKey))
	assert.True(t, idx.IsFree(slot.NewKey("2026-09-12", "14:00")), "対象日以外の予約は登録されない")
}

func TestIndex_OccupiedTimes(t *testing.T) {
	idx := NewIndex()
	date := slot.Date("2026-09-10")

	idx.Occupy(slot.NewKey(date, "14:00"), "res-1")
	idx.Occupy(slot.NewKey(date, "15:30"), "res-2")
	idx.Occupy(slot.NewKey("2026-09-11", "14:00"), "res-3")

	occupied := idx.OccupiedTimes(date)
	assert.Len(t, occupied, 2)
	assert.True(t, occupied["14:00"])
	assert.True(t, occupied["15:30"])
}
