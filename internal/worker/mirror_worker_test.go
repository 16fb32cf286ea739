package worker

import (
	"context"
	"errors"
	"testing"

	"outlay/internal/amqp"
	"outlay/internal/core"
	sheetsmem "outlay/internal/sheets/memory"
	"outlay/internal/store"
)

type fakeStore struct {
	items    map[string]core.Expense
	pending  []core.Expense
	mirrored []string
	errored  []string
}

func newFakeStore(items ...core.Expense) *fakeStore {
	s := &fakeStore{items: map[string]core.Expense{}}
	for _, e := range items {
		s.items[e.ID] = e
		s.pending = append(s.pending, e)
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, id string) (core.Expense, error) {
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, store.ErrNotFound
	}
	return e, nil
}

func (s *fakeStore) PendingMirror(_ context.Context, limit int) ([]core.Expense, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeStore) MarkMirrored(_ context.Context, id string) error {
	s.mirrored = append(s.mirrored, id)
	return nil
}

func (s *fakeStore) MarkMirrorError(_ context.Context, id string) error {
	s.errored = append(s.errored, id)
	return nil
}

func expense(id string) core.Expense {
	return core.Expense{ID: id, Item: "coffee", Amount: 4.5, Category: "food", Date: "2024-06-15"}
}

func TestHandleMirrorMessage(t *testing.T) {
	st := newFakeStore(expense("a"))
	sheet := sheetsmem.New()
	w := NewMirrorWorker(st, sheet, 10)

	err := w.HandleMirrorMessage(context.Background(), &amqp.ExpenseMirrorMessage{ID: "a"})
	if err != nil {
		t.Fatalf("HandleMirrorMessage: %v", err)
	}

	if rows := sheet.Rows(); len(rows) != 1 || rows[0].ID != "a" {
		t.Errorf("sheet rows = %+v", rows)
	}
	if len(st.mirrored) != 1 || st.mirrored[0] != "a" {
		t.Errorf("mirrored = %v", st.mirrored)
	}
}

func TestHandleMirrorMessage_GoneExpenseSkipped(t *testing.T) {
	st := newFakeStore()
	w := NewMirrorWorker(st, sheetsmem.New(), 10)

	if err := w.HandleMirrorMessage(context.Background(), &amqp.ExpenseMirrorMessage{ID: "ghost"}); err != nil {
		t.Errorf("gone expense should not error, got %v", err)
	}
}

func TestHandleMirrorMessage_AppendFailureMarksError(t *testing.T) {
	st := newFakeStore(expense("a"))
	sheet := sheetsmem.New()
	sheet.FailWith(errors.New("quota exceeded"))
	w := NewMirrorWorker(st, sheet, 10)

	err := w.HandleMirrorMessage(context.Background(), &amqp.ExpenseMirrorMessage{ID: "a"})
	if err == nil {
		t.Fatal("expected append error")
	}
	if len(st.errored) != 1 || st.errored[0] != "a" {
		t.Errorf("errored = %v", st.errored)
	}
	if len(st.mirrored) != 0 {
		t.Errorf("mirrored = %v, want none", st.mirrored)
	}
}

func TestProcessPending(t *testing.T) {
	st := newFakeStore(expense("a"), expense("b"), expense("c"))
	sheet := sheetsmem.New()
	w := NewMirrorWorker(st, sheet, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	// Batch size caps a single sweep.
	if rows := sheet.Rows(); len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestProcessPending_Empty(t *testing.T) {
	w := NewMirrorWorker(newFakeStore(), sheetsmem.New(), 10)
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Errorf("ProcessPending on empty store: %v", err)
	}
}
