// Package memory is an in-process RowAppender used by guest mode and the
// worker tests. Rows live only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"outlay/internal/core"
)

type Store struct {
	mu      sync.Mutex
	rows    []core.Expense
	failErr error
}

func New() *Store {
	return &Store{}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}
	s.rows = append(s.rows, e)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.rows))
	copy(out, s.rows)
	return out
}

// FailWith makes subsequent appends return err; pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
