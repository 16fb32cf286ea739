// Package memory is the guest-mode backend: a mutex-guarded in-process
// collection with the same ports as the durable store. Nothing survives the
// process.
package memory

import (
	"context"
	"sync"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	version int64
}

func New() *Store {
	return &Store{}
}

// Add validates the draft, assigns ID and CreatedAt, and stores the record.
func (s *Store) Add(_ context.Context, d core.Draft) (core.Expense, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}
	e := store.Materialize(d, time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	s.version++
	return e, nil
}

// List returns a copy of the collection so callers can aggregate over an
// immutable snapshot.
func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, store.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.version++
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Version(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}
