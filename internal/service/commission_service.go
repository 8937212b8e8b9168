package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"printshop-backend/internal/domain"
)

// CommissionService derives per-seller commissions from paid order
// amounts. Compute is a pure function of its arguments; Pay writes the
// one-shot payout expense.
type CommissionService struct {
	Orders   OrderStore
	Expenses ExpenseStore
	Sink     NotificationSink
	Logger   *slog.Logger

	Now func() time.Time
}

// CommissionCategory is the cash-flow category payout expenses land in.
const CommissionCategory = "Comissão"

func (s CommissionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Compute groups orders by seller and applies the rate to collected
// amounts. Orders outside the window, with nothing paid, without a
// seller, or outside accessibleSellerIDs (when non-nil) are skipped.
// Output order is deterministic: commission descending, seller id
// ascending on ties.
func Compute(orders []domain.Order, periodStart, periodEnd time.Time, rate float64, accessibleSellerIDs []int64) []domain.SellerCommission {
	var allowed map[int64]struct{}
	if accessibleSellerIDs != nil {
		allowed = make(map[int64]struct{}, len(accessibleSellerIDs))
		for _, id := range accessibleSellerIDs {
			allowed[id] = struct{}{}
		}
	}

	groups := make(map[int64]*domain.SellerCommission)
	for _, o := range orders {
		if o.SellerID == nil {
			continue
		}
		if o.CreatedAt.Before(periodStart) || o.CreatedAt.After(periodEnd) {
			continue
		}
		if !o.AmountPaid.IsPositive() {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[*o.SellerID]; !ok {
				continue
			}
		}
		g, ok := groups[*o.SellerID]
		if !ok {
			g = &domain.SellerCommission{SellerID: *o.SellerID, SellerName: o.SellerName}
			groups[*o.SellerID] = g
		}
		g.TotalSales = g.TotalSales.Add(o.AmountPaid)
		g.OrdersCount++
		g.Orders = append(g.Orders, o)
	}

	out := make([]domain.SellerCommission, 0, len(groups))
	for _, g := range groups {
		g.CommissionAmount = g.TotalSales.Percent(rate)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CommissionAmount.Cents != out[j].CommissionAmount.Cents {
			return out[i].CommissionAmount.Cents > out[j].CommissionAmount.Cents
		}
		return out[i].SellerID < out[j].SellerID
	})
	return out
}

// ComputeForPeriod loads orders in the window and runs Compute.
func (s CommissionService) ComputeForPeriod(ctx context.Context, periodStart, periodEnd time.Time, rate float64, accessibleSellerIDs []int64) ([]domain.SellerCommission, error) {
	if rate < 0 {
		return nil, domain.Validationf("rate must not be negative")
	}
	if periodEnd.Before(periodStart) {
		return nil, domain.Validationf("period end before period start")
	}
	orders, err := s.Orders.ListByPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, domain.StoreErr("load orders", err)
	}
	return Compute(orders, periodStart, periodEnd, rate, accessibleSellerIDs), nil
}

// Pay debits the cash-flow ledger with the payout; no balance is kept
// here.
func (s CommissionService) Pay(ctx context.Context, sc domain.SellerCommission, period string) (*domain.FinanceEntry, error) {
	if !sc.CommissionAmount.IsPositive() {
		return nil, domain.Validationf("commission amount must be positive")
	}
	if sc.SellerName == "" {
		return nil, domain.Validationf("seller name is required")
	}

	seller := sc.SellerName
	entry, err := s.Expenses.CreateEntry(ctx, &domain.FinanceEntry{
		Title:    fmt.Sprintf("Comissão de %s - %s", sc.SellerName, period),
		Amount:   sc.CommissionAmount,
		Category: CommissionCategory,
		Date:     s.now(),
		Type:     domain.FinanceExpense,
		Seller:   &seller,
	})
	if err != nil {
		return nil, domain.StoreErr("create payout expense", err)
	}

	if s.Sink != nil {
		s.Sink.Notify(ctx, domain.NotificationEvent{
			Type:    domain.NotificationInfo,
			Title:   "Comissão paga",
			Message: fmt.Sprintf("Comissão de %s - %s: %s", sc.SellerName, period, sc.CommissionAmount),
			Data: map[string]any{
				"sellerId": sc.SellerID,
				"amount":   sc.CommissionAmount.Decimal(),
				"period":   period,
			},
		})
	}
	return entry, nil
}
