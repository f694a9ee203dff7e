package availability

import (
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// Decision は競合判定の結果を表す
// 競合時は占有中予約のIDと枠のみを持ち、相手の連絡先等は含めない
type Decision struct {
	Admit      bool
	ConflictID string
	Date       slot.Date
	Time       slot.TimeOfDay
}

// Resolve は候補枠をインデックスと突き合わせて受理可否を判定する
// バケットが空でなければ競合（占有者のうち任意の1件を参照する）
// 同一予約者の再送信であっても暗黙のマージは行わず競合として扱う
func Resolve(date slot.Date, t slot.TimeOfDay, index *Index) Decision {
	key := slot.NewKey(date, t)
	occupants := index.Occupants(key)
	if len(occupants) == 0 {
		return Decision{Admit: true, Date: date, Time: t}
	}
	return Decision{
		Admit:      false,
		ConflictID: occupants[0],
		Date:       date,
		Time:       t,
	}
}
