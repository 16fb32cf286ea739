package sheets

import (
	"context"

	"outlay/internal/core"
)

// RowAppender is the outbound port for the backup mirror. Implementations
// must be idempotent-friendly: the worker may retry an append after a
// partial failure, so the expense id rides along in the row.
type RowAppender interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
