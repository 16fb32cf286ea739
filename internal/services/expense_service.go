// Package services orchestrates expense operations across the store and the
// backup queue.
package services

import (
	"context"
	"fmt"
	"time"

	"outlay/internal/core"
	applog "outlay/internal/log"
	"outlay/internal/quickadd"
	"outlay/internal/store"
)

// Store is the persistence surface the service needs.
type Store interface {
	store.ExpenseAdder
	store.ExpenseLister
	store.ExpenseDeleter
	store.ExpenseGetter
	store.Versioner
}

// MirrorPublisher queues an expense for the backup worker.
type MirrorPublisher interface {
	PublishExpenseMirror(ctx context.Context, id string) error
	Close() error
}

// ExpenseService saves expenses locally first; the mirror publish is
// best-effort and never fails the request.
type ExpenseService struct {
	store     Store
	publisher MirrorPublisher
	log       *applog.StructuredLogger
}

func NewExpenseService(store Store, publisher MirrorPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		log:       applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentExpense})),
	}
}

// Create validates and saves a draft, then queues it for mirroring.
func (s *ExpenseService) Create(ctx context.Context, d core.Draft) (core.Expense, error) {
	e, err := s.store.Add(ctx, d)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.log.LogExpenseCreated(ctx, e.ID, e.Item, e.Amount, e.Category, e.Date)
	s.publishMirror(ctx, e.ID)
	return e, nil
}

// CreateQuick parses a free-text line into a draft dated today and saves it.
func (s *ExpenseService) CreateQuick(ctx context.Context, line string) (core.Expense, error) {
	d, err := quickadd.Parse(line, time.Now())
	if err != nil {
		return core.Expense{}, err
	}
	return s.Create(ctx, d)
}

// Delete removes an expense. The backup sheet keeps its row; the mirror is
// append-only.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.List(ctx)
}

func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	return s.store.Get(ctx, id)
}

func (s *ExpenseService) Version(ctx context.Context) (int64, error) {
	return s.store.Version(ctx)
}

func (s *ExpenseService) publishMirror(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseMirror(ctx, id); err != nil {
		// The expense is saved; the worker's sweep picks it up later.
		s.log.LogError(ctx, "Failed to publish mirror message", err,
			applog.ComponentAMQP, applog.OpMirror,
			applog.LogFields{applog.FieldExpenseID: id})
	}
}

// Close closes the AMQP connection if one is configured.
func (s *ExpenseService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
