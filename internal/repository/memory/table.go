// Package memory is an in-process repository backend. It keeps every collection in a
// mutex guarded slice and is used for local runs and service tests.
package memory

import (
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table is an insertion ordered collection of documents of type T.
type table[T any] struct {
	mu   sync.RWMutex
	rows []T
	id   func(*T) *primitive.ObjectID
}

func newTable[T any](id func(*T) *primitive.ObjectID) *table[T] {
	return &table[T]{id: id}
}

func (t *table[T]) insert(rows ...T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rows...)
}

// insertUnique inserts row unless conflicts reports a clash with an existing row.
func (t *table[T]) insertUnique(row T, conflicts func(existing, row *T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if conflicts(&t.rows[i], &row) {
			return false
		}
	}
	t.rows = append(t.rows, row)
	return true
}

func (t *table[T]) find(match func(*T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.rows {
		if match(&t.rows[i]) {
			return t.rows[i], true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) byID(id primitive.ObjectID) (T, bool) {
	return t.find(func(row *T) bool { return *t.id(row) == id })
}

// filter returns copies of the matching rows, optionally stable sorted by less.
func (t *table[T]) filter(match func(*T) bool, less func(a, b *T) bool) []T {
	t.mu.RLock()
	out := []T{}
	for i := range t.rows {
		if match == nil || match(&t.rows[i]) {
			out = append(out, t.rows[i])
		}
	}
	t.mu.RUnlock()
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	}
	return out
}

func (t *table[T]) update(id primitive.ObjectID, apply func(*T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			apply(&t.rows[i])
			return true
		}
	}
	return false
}

func (t *table[T]) deleteWhere(match func(*T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0]
	removed := 0
	for i := range t.rows {
		if match(&t.rows[i]) {
			removed++
			continue
		}
		kept = append(kept, t.rows[i])
	}
	var zero T
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = zero
	}
	t.rows = kept
	return removed
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func in(set map[primitive.ObjectID]struct{}, id primitive.ObjectID) bool {
	_, ok := set[id]
	return ok
}
