package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

func TestResolve(t *testing.T) {
	date := slot.Date("2026-09-10")

	t.Run("空き枠は受理される", func(t *testing.T) {
		idx := NewIndex()
		d := Resolve(date, "14:00", idx)

		assert.True(t, d.Admit)
		assert.Empty(t, d.ConflictID)
		assert.Equal(t, date, d.Date)
		assert.Equal(t, slot.TimeOfDay("14:00"), d.Time)
	})

	t.Run("占有中の枠は競合になる", func(t *testing.T) {
		idx := NewIndex()
		idx.Occupy(slot.NewKey(date, "14:00"), "res-1")

		d := Resolve(date, "14:00", idx)
		assert.False(t, d.Admit)
		assert.Equal(t, "res-1", d.ConflictID)
	})

	t.Run("解放後の枠は再び受理される", func(t *testing.T) {
		idx := NewIndex()
		key := slot.NewKey(date, "14:00")
		idx.Occupy(key, "res-1")
		idx.Release(key, "res-1")

		d := Resolve(date, "14:00", idx)
		assert.True(t, d.Admit)
	})

	t.Run("別の時刻枠には影響しない", func(t *testing.T) {
		idx := NewIndex()
		idx.Occupy(slot.NewKey(date, "14:00"), "res-1")

		d := Resolve(date, "14:30", idx)
		assert.True(t, d.Admit)
	})
}
