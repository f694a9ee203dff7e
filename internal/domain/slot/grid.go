package slot

import (
	"errors"
	"time"
)

// Slot ドメインのエラー定義
var (
	ErrInvalidDate     = errors.New("日付の形式が不正です")
	ErrInvalidTime     = errors.New("時刻の形式が不正です")
	ErrInvalidGrid     = errors.New("営業時間の設定が不正です")
	ErrOffGrid         = errors.New("予約枠の時刻ではありません")
	ErrInvalidResource = errors.New("リソース種別が不正です")
)

// Grid は営業時間内の固定間隔の予約枠グリッドを表す
type Grid struct {
	Open     TimeOfDay
	Close    TimeOfDay
	Interval time.Duration
}

// NewGrid は営業時間と枠間隔からグリッドを生成する
func NewGrid(open, close string, interval time.Duration) (Grid, error) {
	o, err := ParseTimeOfDay(open)
	if err != nil {
		return Grid{}, err
	}
	c, err := ParseTimeOfDay(close)
	if err != nil {
		return Grid{}, err
	}
	if !o.Before(c) || interval <= 0 || interval%time.Minute != 0 {
		return Grid{}, ErrInvalidGrid
	}
	return Grid{Open: o, Close: c, Interval: interval}, nil
}

// Contains は指定時刻がグリッド上の有効な枠かを返す
func (g Grid) Contains(t TimeOfDay) bool {
	for _, s := range g.Slots() {
		if s == t {
			return true
		}
	}
	return false
}

// Slots は1日分の全予約枠を開始時刻順に返す
// 閉店時刻ちょうどの枠は含まない
func (g Grid) Slots() []TimeOfDay {
	open, _ := time.Parse(timeLayout, string(g.Open))
	close, _ := time.Parse(timeLayout, string(g.Close))

	var slots []TimeOfDay
	for cur := open; cur.Before(close); cur = cur.Add(g.Interval) {
		slots = append(slots, TimeOfDay(cur.Format(timeLayout)))
	}
	return slots
}
