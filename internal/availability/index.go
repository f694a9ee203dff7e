package availability

import (
	"strings"
	"sync"

	"github.com/sanosuguru/venue-reservation/internal/domain/reservation"
	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// Index は (日付, 時刻) → 占有中予約IDの集合を保持する共有インデックス
// ストアから導出される非正規データであり、真実の源はあくまでストア側
// 競合判定に使うバケットの変更は枠キー単位のロック配下で行われる
type Index struct {
	mu      sync.RWMutex
	buckets map[slot.Key]map[string]struct{}
}

// NewIndex は空のインデックスを作成する
func NewIndex() *Index {
	return &Index{buckets: make(map[slot.Key]map[string]struct{})}
}

// RebuildKey は指定キーのバケットのみをストアの内容から再構築する
// 枠ロック保持中の競合判定で使う。ストアのスナップショットが古くても
// 他キーのバケット（別ロック配下で更新中かもしれない）には触れない
func (i *Index) RebuildKey(key slot.Key, reservations []*reservation.Reservation) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.buckets, key)
	for _, r := range reservations {
		if !r.Occupies() || r.SlotKey() != key {
			continue
		}
		i.occupyLocked(key, r.ID)
	}
}

// RebuildDay は指定日の全バケットをストアの内容から再構築する
// ロックを持たない空き枠照会の計算前に使う
// 枠を占有する状態（requested/approved）の予約のみが登録される
func (i *Index) RebuildDay(date slot.Date, reservations []*reservation.Reservation) {
	i.mu.Lock()
	defer i.mu.Unlock()

	prefix := string(date) + "@"
	for key := range i.buckets {
		if strings.HasPrefix(string(key), prefix) {
			delete(i.buckets, key)
		}
	}
	for _, r := range reservations {
		if r.Date != date || !r.Occupies() {
			continue
		}
		i.occupyLocked(r.SlotKey(), r.ID)
	}
}

// Occupy は予約IDを指定キーのバケットに登録する
func (i *Index) Occupy(key slot.Key, id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.occupyLocked(key, id)
}

// Release は予約IDを指定キーのバケットから取り除く
func (i *Index) Release(key slot.Key, id string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	bucket, ok := i.buckets[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(i.buckets, key)
	}
}

// Occupants は指定キーを占有している予約IDの一覧を返す
func (i *Index) Occupants(key slot.Key) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	bucket, ok := i.buckets[key]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	return ids
}

// IsFree は指定キーに占有中の予約がないかを返す
func (i *Index) IsFree(key slot.Key) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.buckets[key]) == 0
}

// OccupiedTimes は指定日で占有されている時刻枠の一覧を返す
func (i *Index) OccupiedTimes(date slot.Date) map[slot.TimeOfDay]bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	prefix := string(date) + "@"
	occupied := make(map[slot.TimeOfDay]bool)
	for key, bucket := range i.buckets {
		if len(bucket) > 0 && strings.HasPrefix(string(key), prefix) {
			occupied[slot.TimeOfDay(strings.TrimPrefix(string(key), prefix))] = true
		}
	}
	return occupied
}

func (i *Index) occupyLocked(key slot.Key, id string) {
	bucket, ok := i.buckets[key]
	if !ok {
		bucket = make(map[string]struct{})
		i.buckets[key] = bucket
	}
	bucket[id] = struct{}{}
}
