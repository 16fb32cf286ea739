package services

import (
	"context"
	"errors"
	"testing"

	"outlay/internal/core"
	"outlay/internal/store/memory"
)

type fakePublisher struct {
	published []string
	err       error
	closed    bool
}

func (p *fakePublisher) PublishExpenseMirror(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func TestCreatePublishesMirror(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.Create(context.Background(), core.Draft{
		Item: "coffee", Amount: 4.5, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != e.ID {
		t.Errorf("published = %v, want [%s]", pub.published, e.ID)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.Create(context.Background(), core.Draft{
		Item: "coffee", Amount: 4.5, Category: "food", Date: "2024-06-15",
	})
	if err != nil {
		t.Fatalf("Create should not fail on publish error: %v", err)
	}

	items, _ := svc.List(context.Background())
	if len(items) != 1 || items[0].ID != e.ID {
		t.Errorf("expense not stored: %+v", items)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	_, err := svc.Create(context.Background(), core.Draft{
		Item: "", Amount: 1, Category: "food", Date: "2024-06-15",
	})
	if !errors.Is(err, core.ErrEmptyItem) {
		t.Errorf("Create error = %v, want ErrEmptyItem", err)
	}
}

func TestCreateQuick(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.CreateQuick(context.Background(), "coffee 4.50 #food")
	if err != nil {
		t.Fatalf("CreateQuick: %v", err)
	}
	if e.Item != "coffee" || e.Amount != 4.5 || e.Category != "food" {
		t.Errorf("CreateQuick = %+v", e)
	}
	if len(pub.published) != 1 {
		t.Errorf("published = %v, want one message", pub.published)
	}
}

func TestCreateQuickInvalidLine(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)
	if _, err := svc.CreateQuick(context.Background(), "no amount here"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("CreateQuick error = %v, want ErrInvalidAmount", err)
	}
}

func TestClose(t *testing.T) {
	t.Run("nil publisher", func(t *testing.T) {
		svc := NewExpenseService(memory.New(), nil)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("with publisher", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := NewExpenseService(memory.New(), pub)
		if err := svc.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !pub.closed {
			t.Error("publisher not closed")
		}
	})
}
