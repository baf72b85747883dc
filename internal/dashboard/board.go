// Package dashboard keeps the client-side invitation and application lists.
// Each board loads its list once and then applies the record the server
// returns for every action, replacing or removing exactly that record.
package dashboard

import (
	"sync"

	"collabhub/internal/common"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Toast is the user-facing outcome of a board action.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type localList[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) common.UUID
}

func (l *localList[T]) reset(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T(nil), items...)
}

func (l *localList[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *localList[T]) find(id common.UUID) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if l.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// apply replaces the record with the same id, or appends it when the list
// does not hold it yet.
func (l *localList[T]) apply(record T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if l.id(item) == l.id(record) {
			l.items[i] = record
			return
		}
	}
	l.items = append(l.items, record)
}

func (l *localList[T]) remove(id common.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if l.id(item) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func orSomeone(name string) string {
	if name == "" {
		return "this user"
	}
	return name
}

func orRole(name string) string {
	if name == "" {
		return "this role"
	}
	return name
}
