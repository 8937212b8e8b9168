package service

import (
	"context"
	"time"

	"printshop-backend/internal/domain"
)

// Store interfaces consumed by the ledger services. The pgx
// repositories implement them; tests supply in-memory fakes.

type OrderStore interface {
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// UpdatePaymentState writes the full money state of one order in a
	// single statement: paid, remaining, status and the grown payments
	// array together.
	UpdatePaymentState(ctx context.Context, o *domain.Order) error
	UpdateFulfillment(ctx context.Context, id int64, status domain.FulfillmentStatus) error
	List(ctx context.Context, limit int) ([]domain.Order, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]domain.Order, error)
}

type InstallmentStore interface {
	Get(ctx context.Context, id int64) (*domain.PendingInstallment, error)
	GetBatch(ctx context.Context, ids []int64) ([]domain.PendingInstallment, error)
	// CreateBatch inserts all rows of a split in one transaction.
	CreateBatch(ctx context.Context, rows []domain.PendingInstallment) ([]domain.PendingInstallment, error)
	Update(ctx context.Context, row *domain.PendingInstallment) error
	DeleteBatch(ctx context.Context, ids []int64) error
	List(ctx context.Context, onlyUnpaid bool, limit int) ([]domain.PendingInstallment, error)
}

type ExpenseStore interface {
	CreateEntry(ctx context.Context, e *domain.FinanceEntry) (*domain.FinanceEntry, error)
}

// NotificationSink is one-way: failures are logged by the
// implementation and never surface to the caller.
type NotificationSink interface {
	Notify(ctx context.Context, ev domain.NotificationEvent)
}
