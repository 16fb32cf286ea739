// Package store defines the persistence ports shared by every expense
// backend, plus the creation-time field assignment all backends use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"outlay/internal/core"
)

// ErrNotFound is returned when an expense id does not exist in the store.
var ErrNotFound = errors.New("expense not found")

// ExpenseAdder persists a validated draft, assigning ID and CreatedAt.
type ExpenseAdder interface {
	Add(ctx context.Context, d core.Draft) (core.Expense, error)
}

// ExpenseLister returns the full current collection. Order is unspecified;
// the aggregation engine treats the slice as an unordered snapshot.
type ExpenseLister interface {
	List(ctx context.Context) ([]core.Expense, error)
}

// ExpenseDeleter removes a record by id. There is no update operation:
// expenses are immutable once created.
type ExpenseDeleter interface {
	Delete(ctx context.Context, id string) error
}

// ExpenseGetter loads a single record by id.
type ExpenseGetter interface {
	Get(ctx context.Context, id string) (core.Expense, error)
}

// Versioner exposes a counter that changes on every mutation. Derived-view
// caches key on it; recomputing without the cache must give identical output.
type Versioner interface {
	Version(ctx context.Context) (int64, error)
}

// Materialize turns a draft into a stored record, assigning the identifier
// and creation timestamp. IDs are never reused; CreatedAt is only ever an
// ordering tie-break, never a bucketing input.
func Materialize(d core.Draft, now time.Time) core.Expense {
	return core.Expense{
		ID:        uuid.NewString(),
		Item:      d.Item,
		Amount:    d.Amount,
		Category:  d.Category,
		Date:      d.Date,
		CreatedAt: now.UnixMilli(),
	}
}
