package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"printshop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
)

func commissionOrder(id, sellerID int64, sellerName string, paidCents int64, createdAt time.Time) domain.Order {
	sid := sellerID
	return domain.Order{
		ID:         id,
		SellerID:   &sid,
		SellerName: sellerName,
		AmountPaid: domain.MoneyFromCents(paidCents),
		CreatedAt:  createdAt,
	}
}

// Scenario: sellerX has 200 paid + one unpaid order, sellerY has 300
// paid; rate 10% → 20.00 and 30.00.
func TestCompute_GroupsAndRates(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		commissionOrder(1, 1, "Seller X", 20000, day),
		commissionOrder(2, 1, "Seller X", 0, day), // nothing collected, excluded
		commissionOrder(3, 2, "Seller Y", 30000, day),
	}

	got := Compute(orders, windowStart, windowEnd, 10, nil)
	require.Len(t, got, 2)

	// sorted by commission descending
	assert.Equal(t, int64(2), got[0].SellerID)
	assert.Equal(t, int64(3000), got[0].CommissionAmount.Cents)
	assert.Equal(t, int64(30000), got[0].TotalSales.Cents)
	assert.Equal(t, 1, got[0].OrdersCount)

	assert.Equal(t, int64(1), got[1].SellerID)
	assert.Equal(t, int64(2000), got[1].CommissionAmount.Cents)
	assert.Equal(t, 1, got[1].OrdersCount, "the unpaid order is not counted")
}

func TestCompute_WindowAndSellerFilters(t *testing.T) {
	inWindow := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		commissionOrder(1, 1, "Seller X", 10000, inWindow),
		commissionOrder(2, 1, "Seller X", 10000, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)),
		commissionOrder(3, 1, "Seller X", 10000, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		commissionOrder(4, 2, "Seller Y", 10000, inWindow),
		{ID: 5, SellerName: "walk-in", AmountPaid: domain.MoneyFromCents(10000), CreatedAt: inWindow},
	}

	got := Compute(orders, windowStart, windowEnd, 10, nil)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10000), got[0].TotalSales.Cents)
	assert.Equal(t, int64(10000), got[1].TotalSales.Cents)

	// restricted visibility keeps only named sellers
	restricted := Compute(orders, windowStart, windowEnd, 10, []int64{2})
	require.Len(t, restricted, 1)
	assert.Equal(t, int64(2), restricted[0].SellerID)

	// empty (non-nil) restriction means nothing is visible
	none := Compute(orders, windowStart, windowEnd, 10, []int64{})
	assert.Empty(t, none)
}

func TestCompute_Deterministic(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		commissionOrder(1, 3, "C", 10000, day),
		commissionOrder(2, 1, "A", 10000, day),
		commissionOrder(3, 2, "B", 10000, day),
		commissionOrder(4, 1, "A", 5000, day),
	}
	shuffled := []domain.Order{orders[3], orders[2], orders[0], orders[1]}

	first := Compute(orders, windowStart, windowEnd, 7.5, nil)
	second := Compute(shuffled, windowStart, windowEnd, 7.5, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].SellerID, second[i].SellerID)
		assert.Equal(t, first[i].TotalSales, second[i].TotalSales)
		assert.Equal(t, first[i].CommissionAmount, second[i].CommissionAmount)
		assert.Equal(t, first[i].OrdersCount, second[i].OrdersCount)
	}
	// equal commissions tie-break on seller id ascending
	assert.Equal(t, int64(1), first[0].SellerID)
	assert.Equal(t, int64(2), first[1].SellerID)
	assert.Equal(t, int64(3), first[2].SellerID)
}

func TestComputeForPeriod_LoadsFromStore(t *testing.T) {
	store := newMockOrderStore()
	sid := int64(1)
	store.orders[1] = &domain.Order{
		ID: 1, SellerID: &sid, SellerName: "Seller X",
		AmountPaid: domain.MoneyFromCents(20000),
		CreatedAt:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	svc := CommissionService{Orders: store, Logger: slog.Default()}

	got, err := svc.ComputeForPeriod(context.Background(), windowStart, windowEnd, 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2000), got[0].CommissionAmount.Cents)

	_, err = svc.ComputeForPeriod(context.Background(), windowEnd, windowStart, 10, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.ComputeForPeriod(context.Background(), windowStart, windowEnd, -1, nil)
	assert.True(t, domain.IsValidation(err))
}

func TestPay_WritesExpenseAndNotifies(t *testing.T) {
	expenses := &mockExpenseStore{}
	sink := &mockSink{}
	svc := CommissionService{
		Expenses: expenses,
		Sink:     sink,
		Logger:   slog.Default(),
		Now:      func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) },
	}

	entry, err := svc.Pay(context.Background(), domain.SellerCommission{
		SellerID:         7,
		SellerName:       "João",
		TotalSales:       domain.MoneyFromCents(20000),
		CommissionAmount: domain.MoneyFromCents(2000),
		OrdersCount:      1,
	}, "Janeiro/2024")
	require.NoError(t, err)

	assert.Equal(t, "Comissão de João - Janeiro/2024", entry.Title)
	assert.Equal(t, "Comissão", entry.Category)
	assert.Equal(t, domain.FinanceExpense, entry.Type)
	assert.Equal(t, int64(2000), entry.Amount.Cents)
	require.NotNil(t, entry.Seller)
	assert.Equal(t, "João", *entry.Seller)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "Comissão paga", sink.events[0].Title)

	_, err = svc.Pay(context.Background(), domain.SellerCommission{SellerName: "João"}, "p")
	assert.True(t, domain.IsValidation(err))
}
