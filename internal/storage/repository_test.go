package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"outlay/internal/core"
	"outlay/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_AddAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e, err := repo.Add(ctx, core.Draft{
		Item: "lunch", Amount: 12.50, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.ID == "" {
		t.Error("expected an assigned ID")
	}
	if e.CreatedAt == 0 {
		t.Error("expected an assigned CreatedAt")
	}

	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != e {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestSQLiteRepository_AddValidates(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Add(context.Background(), core.Draft{
		Item: "", Amount: 5, Category: "food", Date: "2024-06-15",
	})
	if !errors.Is(err, core.ErrEmptyItem) {
		t.Errorf("expected ErrEmptyItem, got %v", err)
	}
}

func TestSQLiteRepository_ListOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []core.Draft{
		{Item: "older", Amount: 1, Category: "misc", Date: "2024-06-10"},
		{Item: "newest", Amount: 2, Category: "misc", Date: "2024-06-20"},
		{Item: "middle", Amount: 3, Category: "misc", Date: "2024-06-15"},
	} {
		if _, err := repo.Add(ctx, d); err != nil {
			t.Fatalf("seed %s: %v", d.Item, err)
		}
	}

	expenses, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(expenses))
	}
	wantOrder := []string{"newest", "middle", "older"}
	for i, want := range wantOrder {
		if expenses[i].Item != want {
			t.Errorf("position %d: expected %s, got %s", i, want, expenses[i].Item)
		}
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e, err := repo.Add(ctx, core.Draft{
		Item: "lunch", Amount: 9.90, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestSQLiteRepository_VersionBumpsOnMutation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	v0, _ := repo.Version(ctx)

	e, err := repo.Add(ctx, core.Draft{
		Item: "lunch", Amount: 9.90, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	v1, _ := repo.Version(ctx)
	if v1 == v0 {
		t.Error("expected version to change after add")
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v2, _ := repo.Version(ctx)
	if v2 == v1 {
		t.Error("expected version to change after delete")
	}
}

func TestSQLiteRepository_MirrorLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Add(ctx, core.Draft{
		Item: "first", Amount: 1, Category: "misc", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := repo.Add(ctx, core.Draft{
		Item: "second", Amount: 2, Category: "misc", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	pending, err := repo.PendingMirror(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := repo.MarkMirrored(ctx, first.ID); err != nil {
		t.Fatalf("mark mirrored: %v", err)
	}
	pending, _ = repo.PendingMirror(ctx, 10)
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("expected only the second expense pending, got %+v", pending)
	}

	// An errored row stays in the sweep set for retry.
	if err := repo.MarkMirrorError(ctx, second.ID); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	pending, _ = repo.PendingMirror(ctx, 10)
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("expected errored expense still pending, got %+v", pending)
	}
}

func TestSQLiteRepository_PendingMirrorLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Add(ctx, core.Draft{
			Item: "item", Amount: 1, Category: "misc", Date: "2024-06-15",
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	pending, err := repo.PendingMirror(ctx, 3)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("expected batch of 3, got %d", len(pending))
	}
}

func TestSQLiteRepository_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	e, err := repo.Add(ctx, core.Draft{
		Item: "lunch", Amount: 9.90, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen repository: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != e {
		t.Errorf("expected persisted expense, got %+v", got)
	}
}
