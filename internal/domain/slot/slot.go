package slot

import (
	"time"
)

// ResourceType は予約対象のリソース種別を表す
type ResourceType string

const (
	ResourceCafe        ResourceType = "cafe"
	ResourceSensoryRoom ResourceType = "sensory_room"
	ResourcePlayground  ResourceType = "playground"
	ResourceParty       ResourceType = "party"
	ResourceEvent       ResourceType = "event"
)

// ResourceTypes は全てのリソース種別
var ResourceTypes = []ResourceType{
	ResourceCafe,
	ResourceSensoryRoom,
	ResourcePlayground,
	ResourceParty,
	ResourceEvent,
}

// Valid はリソース種別が定義済みかを返す
func (r ResourceType) Valid() bool {
	for _, t := range ResourceTypes {
		if r == t {
			return true
		}
	}
	return false
}

// Date は施設ローカルのカレンダー日付（YYYY-MM-DD）を表す
type Date string

const dateLayout = "2006-01-02"

// ParseDate は文字列からDateを生成する
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return Date(t.Format(dateLayout)), nil
}

// Before は日付の前後関係を返す
// ISO形式のため文字列比較で判定できる
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// Today は施設タイムゾーンにおける今日の日付を返す
func Today(loc *time.Location) Date {
	return Date(time.Now().In(loc).Format(dateLayout))
}

// TimeOfDay は時刻枠（HH:MM）を表す
type TimeOfDay string

const timeLayout = "15:04"

// ParseTimeOfDay は文字列からTimeOfDayを生成する
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", ErrInvalidTime
	}
	return TimeOfDay(t.Format(timeLayout)), nil
}

// Before は時刻枠の前後関係を返す
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return string(t) < string(other)
}

// Key は予約枠の識別子（日付と時刻の組）を表す
// 全リソース種別が単一のタイムラインを共有するため、リソース種別はキーに含めない
type Key string

// NewKey は日付と時刻から枠キーを生成する
func NewKey(d Date, t TimeOfDay) Key {
	return Key(string(d) + "@" + string(t))
}

// ScheduledAt は枠の開始時刻を施設タイムゾーンの時刻として返す
func ScheduledAt(d Date, t TimeOfDay, loc *time.Location) time.Time {
	st, err := time.ParseInLocation(dateLayout+" "+timeLayout, string(d)+" "+string(t), loc)
	if err != nil {
		return time.Time{}
	}
	return st
}
