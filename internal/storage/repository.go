package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"outlay/internal/core"
	"outlay/internal/store"

	_ "modernc.org/sqlite"
)

// Mirror sync states for the spreadsheet backup pipeline.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// SQLiteRepository is the durable expense store. It also carries the mirror
// bookkeeping consumed by the backup worker; that column never reaches the
// aggregation engine.
type SQLiteRepository struct {
	db      *sql.DB
	version atomic.Int64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add implements store.ExpenseAdder.
func (r *SQLiteRepository) Add(ctx context.Context, d core.Draft) (core.Expense, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, err
	}
	e := store.Materialize(d, time.Now())

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, item, amount, category, spent_on, created_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Item, e.Amount, e.Category, e.Date, e.CreatedAt, SyncPending)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	r.version.Add(1)

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"item", e.Item,
		"amount", e.Amount,
		"category", e.Category,
		"date", e.Date)

	return e, nil
}

// List implements store.ExpenseLister. Rows come back date descending with
// created_at as the tie-break, the same ordering the CSV export uses.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item, amount, category, spent_on, created_at
		 FROM expenses
		 ORDER BY spent_on DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Item, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Get implements store.ExpenseGetter.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item, amount, category, spent_on, created_at
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Item, &e.Amount, &e.Category, &e.Date, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// Delete implements store.ExpenseDeleter.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	r.version.Add(1)

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// Version implements store.Versioner. The counter is process-local; a restart
// resets it, which only costs one cold cache fill.
func (r *SQLiteRepository) Version(ctx context.Context) (int64, error) {
	return r.version.Load(), nil
}

// PendingMirror returns expenses not yet appended to the backup sheet. This
// backs the worker's recovery sweep for lost queue messages.
func (r *SQLiteRepository) PendingMirror(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item, amount, category, spent_on, created_at
		 FROM expenses
		 WHERE sync_status IN (?, ?)
		 ORDER BY created_at ASC
		 LIMIT ?`, SyncPending, SyncError, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Item, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending expenses: %w", err)
	}
	return out, nil
}

// MarkMirrored records a successful backup append.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncDone); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense marked as mirrored", "id", id)
	return nil
}

// MarkMirrorError flags a failed backup append; the sweep retries it later.
func (r *SQLiteRepository) MarkMirrorError(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Expense marked with mirror error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status %s on %s: %w", status, id, err)
	}
	return nil
}
