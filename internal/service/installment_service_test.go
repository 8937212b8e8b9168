package service

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"printshop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstallmentService(store *mockInstallmentStore) InstallmentService {
	return InstallmentService{
		Installments: store,
		Logger:       slog.Default(),
		Now:          func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) },
	}
}

func splitThree(t *testing.T, svc InstallmentService) []domain.PendingInstallment {
	t.Helper()
	rows, err := svc.SplitPurchase(context.Background(), SplitPurchaseInput{
		TotalAmount:  domain.MoneyFromDecimal(100.00),
		Count:        3,
		FirstDueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		SupplierName: "Gráfica Aliança",
		Description:  "Papel couché 90g",
		Category:     "Insumos",
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	return rows
}

// Scenario: 100.00 into 3 → 33.33, 33.33, 33.34; monthly due dates.
func TestSplitPurchase_ExactAmountsAndMonthlyDates(t *testing.T) {
	svc := newInstallmentService(newMockInstallmentStore())
	rows := splitThree(t, svc)

	assert.Equal(t, int64(3333), rows[0].Amount.Cents)
	assert.Equal(t, int64(3333), rows[1].Amount.Cents)
	assert.Equal(t, int64(3334), rows[2].Amount.Cents)

	var sum int64
	for i, r := range rows {
		sum += r.Amount.Cents
		assert.Equal(t, i+1, r.InstallmentNumber)
		assert.Equal(t, 3, r.TotalInstallments)
		assert.Equal(t, int64(10000), r.TotalAmount.Cents)
		assert.False(t, r.Paid)
	}
	assert.Equal(t, int64(10000), sum)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), rows[1].DueDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rows[2].DueDate)
}

func TestSplitPurchase_ExplicitDates(t *testing.T) {
	svc := newInstallmentService(newMockInstallmentStore())
	dates := []time.Time{
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	rows, err := svc.SplitPurchase(context.Background(), SplitPurchaseInput{
		TotalAmount:  domain.MoneyFromDecimal(99.99),
		Count:        2,
		FirstDueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDates:     dates,
		Description:  "Tinta",
	})
	require.NoError(t, err)
	assert.Equal(t, dates[0], rows[0].DueDate)
	assert.Equal(t, dates[1], rows[1].DueDate)
	assert.Equal(t, int64(4999), rows[0].Amount.Cents)
	assert.Equal(t, int64(5000), rows[1].Amount.Cents)
}

func TestSplitPurchase_Validation(t *testing.T) {
	svc := newInstallmentService(newMockInstallmentStore())

	_, err := svc.SplitPurchase(context.Background(), SplitPurchaseInput{
		TotalAmount: domain.MoneyFromCents(0), Count: 2,
	})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.SplitPurchase(context.Background(), SplitPurchaseInput{
		TotalAmount: domain.MoneyFromCents(1000), Count: 0,
	})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.SplitPurchase(context.Background(), SplitPurchaseInput{
		TotalAmount: domain.MoneyFromCents(1000), Count: 3,
		DueDates: []time.Time{time.Now()},
	})
	assert.True(t, domain.IsValidation(err))
}

func TestPayInstallment_Idempotent(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	first, err := svc.PayInstallment(context.Background(), rows[0].ID)
	require.NoError(t, err)
	assert.True(t, first.Paid)
	require.NotNil(t, first.PaidAt)
	paidAt := *first.PaidAt

	// paying again is a no-op, not an error
	again, err := svc.PayInstallment(context.Background(), rows[0].ID)
	require.NoError(t, err)
	assert.True(t, again.Paid)
	assert.Equal(t, paidAt, *again.PaidAt)

	_, err = svc.PayInstallment(context.Background(), 9999)
	assert.True(t, domain.IsNotFound(err))
}

func TestEditInstallment_DoesNotTouchSiblings(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	newAmount := domain.MoneyFromDecimal(50.00)
	edited, err := svc.EditInstallment(context.Background(), rows[1].ID, EditInstallmentInput{
		Amount: &newAmount,
		Notes:  ptr("renegociado"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), edited.Amount.Cents)
	assert.Equal(t, "renegociado", edited.Notes)

	// siblings keep their amounts; the purchase sum is now broken and
	// that is accepted
	sibling, err := svc.PayInstallment(context.Background(), rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3333), sibling.Amount.Cents)
	assert.Equal(t, int64(10000), sibling.TotalAmount.Cents)
}

// Scenario: replanning 3 → 2 installments after row 1 was paid deletes
// every original row and creates 2 fresh unpaid rows. The paid flag is
// gone; that data loss is the documented behavior.
func TestReplanPurchase_RegenerationDiscardsPaidRows(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	_, err := svc.PayInstallment(context.Background(), rows[0].ID)
	require.NoError(t, err)

	newCount := 2
	replanned, err := svc.ReplanPurchase(context.Background(), ReplanPurchaseInput{
		IDs:      []int64{rows[0].ID, rows[1].ID, rows[2].ID},
		NewCount: &newCount,
	})
	require.NoError(t, err)
	require.Len(t, replanned, 2)

	for _, r := range replanned {
		assert.False(t, r.Paid, "regenerated rows start unpaid even though row 1 had been paid")
		assert.Nil(t, r.PaidAt)
		assert.Equal(t, 2, r.TotalInstallments)
		assert.Equal(t, "Gráfica Aliança", r.SupplierName)
		assert.Equal(t, "Papel couché 90g", r.Description)
		assert.Equal(t, int64(10000), r.TotalAmount.Cents)
	}
	assert.Equal(t, int64(5000), replanned[0].Amount.Cents)
	assert.Equal(t, int64(5000), replanned[1].Amount.Cents)

	// original identities are gone
	for _, old := range rows {
		_, err := svc.PayInstallment(context.Background(), old.ID)
		assert.True(t, domain.IsNotFound(err))
	}

	// only the new rows remain
	left, err := store.List(context.Background(), false, 100)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

// A replan with bad parameters must fail before anything is deleted;
// the original rows, paid flags included, stay exactly as they were.
func TestReplanPurchase_InvalidParamsLeavePurchaseUntouched(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)
	ids := []int64{rows[0].ID, rows[1].ID, rows[2].ID}

	_, err := svc.PayInstallment(context.Background(), rows[0].ID)
	require.NoError(t, err)

	zeroCount := 0
	zeroTotal := domain.MoneyFromCents(0)
	negTotal := domain.MoneyFromCents(-100)
	two := 2
	bad := []ReplanPurchaseInput{
		{IDs: ids, NewCount: &zeroCount},
		{IDs: ids, NewTotalAmount: &zeroTotal},
		{IDs: ids, NewTotalAmount: &negTotal},
		{IDs: ids, NewCount: &two, NewDates: []time.Time{time.Now()}},
	}
	for _, in := range bad {
		_, err := svc.ReplanPurchase(context.Background(), in)
		assert.True(t, domain.IsValidation(err))
	}

	left, err := store.List(context.Background(), false, 100)
	require.NoError(t, err)
	require.Len(t, left, 3)
	sort.Slice(left, func(i, j int) bool {
		return left[i].InstallmentNumber < left[j].InstallmentNumber
	})
	assert.True(t, left[0].Paid)
	assert.Equal(t, int64(3333), left[0].Amount.Cents)
	assert.Equal(t, int64(3334), left[2].Amount.Cents)
}

func TestReplanPurchase_NewTotalRedistributes(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	newTotal := domain.MoneyFromDecimal(150.00)
	replanned, err := svc.ReplanPurchase(context.Background(), ReplanPurchaseInput{
		IDs:            []int64{rows[0].ID, rows[1].ID, rows[2].ID},
		NewTotalAmount: &newTotal,
	})
	require.NoError(t, err)
	require.Len(t, replanned, 3)

	var sum int64
	for _, r := range replanned {
		sum += r.Amount.Cents
		assert.Equal(t, int64(15000), r.TotalAmount.Cents)
	}
	assert.Equal(t, int64(15000), sum)
	// schedule restarts from the original first due date
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), replanned[0].DueDate)
}

func TestReplanPurchase_EditOnlyPath(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	override := domain.MoneyFromDecimal(40.00)
	newDue := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	replanned, err := svc.ReplanPurchase(context.Background(), ReplanPurchaseInput{
		IDs: []int64{rows[0].ID, rows[1].ID, rows[2].ID},
		CommonEdits: EditInstallmentInput{
			Category: ptr("Equipamentos"),
		},
		RowOverrides: map[int64]RowOverride{
			rows[2].ID: {Amount: &override, DueDate: &newDue},
		},
	})
	require.NoError(t, err)
	require.Len(t, replanned, 3)

	sort.Slice(replanned, func(i, j int) bool {
		return replanned[i].InstallmentNumber < replanned[j].InstallmentNumber
	})
	for _, r := range replanned {
		assert.Equal(t, "Equipamentos", r.Category)
	}
	// identities survive on this path
	assert.Equal(t, rows[0].ID, replanned[0].ID)
	assert.Equal(t, int64(3333), replanned[0].Amount.Cents)
	assert.Equal(t, int64(4000), replanned[2].Amount.Cents)
	assert.Equal(t, newDue, replanned[2].DueDate)
}

func TestDeletePurchase(t *testing.T) {
	store := newMockInstallmentStore()
	svc := newInstallmentService(store)
	rows := splitThree(t, svc)

	err := svc.DeletePurchase(context.Background(), []int64{rows[0].ID, rows[1].ID, rows[2].ID})
	require.NoError(t, err)

	left, err := store.List(context.Background(), false, 100)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.True(t, domain.IsValidation(svc.DeletePurchase(context.Background(), nil)))
}
