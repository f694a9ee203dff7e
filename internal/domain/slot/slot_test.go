package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"正常な日付", "2025-06-01", Date("2025-06-01"), false},
		{"形式不正", "01/06/2025", "", true},
		{"存在しない日付", "2025-02-30", "", true},
		{"空文字", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"正常な時刻", "14:00", TimeOfDay("14:00"), false},
		{"形式不正", "2pm", "", true},
		{"存在しない時刻", "25:00", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Before(t *testing.T) {
	assert.True(t, Date("2025-06-01").Before(Date("2025-06-02")))
	assert.False(t, Date("2025-06-02").Before(Date("2025-06-01")))
	assert.False(t, Date("2025-06-01").Before(Date("2025-06-01")))
}

func TestResourceType_Valid(t *testing.T) {
	for _, rt := range ResourceTypes {
		assert.True(t, rt.Valid())
	}
	assert.False(t, ResourceType("pool").Valid())
	assert.False(t, ResourceType("").Valid())
}

func TestNewKey(t *testing.T) {
	key := NewKey(Date("2025-06-01"), TimeOfDay("14:00"))
	assert.Equal(t, Key("2025-06-01@14:00"), key)

	// リソース種別はキーに含まれない（全リソースが単一タイムラインを共有）
	other := NewKey(Date("2025-06-01"), TimeOfDay("14:00"))
	assert.Equal(t, key, other)
}

func TestScheduledAt(t *testing.T) {
	loc := time.UTC
	at := ScheduledAt(Date("2025-06-01"), TimeOfDay("14:00"), loc)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 0, 0, 0, loc), at)
}

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name     string
		open     string
		close    string
		interval time.Duration
		wantErr  bool
	}{
		{"正常なグリッド", "10:00", "20:00", 30 * time.Minute, false},
		{"開店が閉店より後", "20:00", "10:00", 30 * time.Minute, true},
		{"間隔が0", "10:00", "20:00", 0, true},
		{"開店時刻が不正", "ten", "20:00", 30 * time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.open, tt.close, tt.interval)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGrid_Slots(t *testing.T) {
	grid, err := NewGrid("10:00", "12:00", 30*time.Minute)
	require.NoError(t, err)

	slots := grid.Slots()
	assert.Equal(t, []TimeOfDay{"10:00", "10:30", "11:00", "11:30"}, slots)
}

func TestGrid_Contains(t *testing.T) {
	grid, err := NewGrid("10:00", "20:00", 30*time.Minute)
	require.NoError(t, err)

	assert.True(t, grid.Contains("10:00"))
	assert.True(t, grid.Contains("14:30"))
	assert.True(t, grid.Contains("19:30"))
	// 閉店時刻ちょうどの枠はない
	assert.False(t, grid.Contains("20:00"))
	// グリッド外の時刻
	assert.False(t, grid.Contains("14:15"))
	assert.False(t, grid.Contains("09:30"))
}
