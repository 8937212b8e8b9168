package service

import (
	"context"
	"time"

	"printshop-backend/internal/domain"
)

// In-memory stores standing in for the pgx repositories.

type mockOrderStore struct {
	orders map[int64]*domain.Order
	nextID int64
	err    error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (m *mockOrderStore) Get(_ context.Context, id int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order %d not found", id)
	}
	cp := *o
	cp.Payments = append([]domain.Payment(nil), o.Payments...)
	return &cp, nil
}

func (m *mockOrderStore) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o.ID = m.nextID
	m.nextID++
	cp := *o
	m.orders[o.ID] = &cp
	return o, nil
}

func (m *mockOrderStore) UpdatePaymentState(_ context.Context, o *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.orders[o.ID]; !ok {
		return domain.NotFoundf("order %d not found", o.ID)
	}
	cp := *o
	cp.Payments = append([]domain.Payment(nil), o.Payments...)
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderStore) UpdateFulfillment(_ context.Context, id int64, status domain.FulfillmentStatus) error {
	if m.err != nil {
		return m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return domain.NotFoundf("order %d not found", id)
	}
	o.FulfillmentStatus = status
	return nil
}

func (m *mockOrderStore) List(_ context.Context, limit int) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderStore) ListByPeriod(_ context.Context, start, end time.Time) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, *o)
		}
	}
	return out, nil
}

type mockInstallmentStore struct {
	rows   map[int64]*domain.PendingInstallment
	nextID int64
	err    error
}

func newMockInstallmentStore() *mockInstallmentStore {
	return &mockInstallmentStore{rows: map[int64]*domain.PendingInstallment{}, nextID: 1}
}

func (m *mockInstallmentStore) Get(_ context.Context, id int64) (*domain.PendingInstallment, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.NotFoundf("installment %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockInstallmentStore) GetBatch(_ context.Context, ids []int64) ([]domain.PendingInstallment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.PendingInstallment
	for _, id := range ids {
		if r, ok := m.rows[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockInstallmentStore) CreateBatch(_ context.Context, rows []domain.PendingInstallment) ([]domain.PendingInstallment, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.PendingInstallment, 0, len(rows))
	for _, r := range rows {
		r.ID = m.nextID
		m.nextID++
		cp := r
		m.rows[r.ID] = &cp
		out = append(out, r)
	}
	return out, nil
}

func (m *mockInstallmentStore) Update(_ context.Context, row *domain.PendingInstallment) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[row.ID]; !ok {
		return domain.NotFoundf("installment %d not found", row.ID)
	}
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *mockInstallmentStore) DeleteBatch(_ context.Context, ids []int64) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func (m *mockInstallmentStore) List(_ context.Context, onlyUnpaid bool, limit int) ([]domain.PendingInstallment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.PendingInstallment
	for _, r := range m.rows {
		if onlyUnpaid && r.Paid {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

type mockExpenseStore struct {
	entries []domain.FinanceEntry
	nextID  int64
	err     error
}

func (m *mockExpenseStore) CreateEntry(_ context.Context, e *domain.FinanceEntry) (*domain.FinanceEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, *e)
	return e, nil
}

type mockSink struct {
	events []domain.NotificationEvent
}

func (m *mockSink) Notify(_ context.Context, ev domain.NotificationEvent) {
	m.events = append(m.events, ev)
}
