package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"printshop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *mockOrderStore, sink *mockSink) OrderService {
	n := 0
	return OrderService{
		Orders: store,
		Sink:   sink,
		Logger: slog.Default(),
		Now:    func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("pay-%d", n)
		},
	}
}

func createTestOrder(t *testing.T, svc OrderService, totalCents int64) *domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName: "Maria",
		SellerID:     ptr(int64(7)),
		SellerName:   "João",
		Items: []OrderItemInput{
			{Name: "Banner 2x1m", Quantity: 1, UnitPrice: domain.MoneyFromCents(totalCents)},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_ComputesTotalFromItems(t *testing.T) {
	svc := newOrderService(newMockOrderStore(), &mockSink{})

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName: "Maria",
		Items: []OrderItemInput{
			{Name: "Cartão de visita", Quantity: 500, UnitPrice: domain.MoneyFromCents(10)},
			{Name: "Banner", Quantity: 2, UnitPrice: domain.MoneyFromCents(4500)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500*10+2*4500), order.Total.Cents)
	assert.Equal(t, int64(5000), order.Items[0].LineTotal.Cents)
	assert.Equal(t, int64(0), order.AmountPaid.Cents)
	assert.Equal(t, order.Total, order.RemainingAmount)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, domain.FulfillmentPending, order.FulfillmentStatus)
	assert.Empty(t, order.Payments)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newOrderService(newMockOrderStore(), &mockSink{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{{Name: "Flyer", Quantity: 0, UnitPrice: domain.MoneyFromCents(100)}},
	})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{{Name: "Flyer", Quantity: -3, UnitPrice: domain.MoneyFromCents(100)}},
	})
	assert.True(t, domain.IsValidation(err))
}

// Scenario: total 150.00, pay 100.00 via pix then 50.00 cash.
func TestRecordPayment_PartialThenPaid(t *testing.T) {
	store := newMockOrderStore()
	sink := &mockSink{}
	svc := newOrderService(store, sink)
	order := createTestOrder(t, svc, 15000)

	got, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromDecimal(100.00), domain.PaymentPix)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.AmountPaid.Cents)
	assert.Equal(t, int64(5000), got.RemainingAmount.Cents)
	assert.Equal(t, domain.PaymentPartial, got.PaymentStatus)
	assert.Empty(t, sink.events)

	got, err = svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromDecimal(50.00), domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.RemainingAmount.Cents)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	require.Len(t, got.Payments, 2)
	assert.Equal(t, domain.PaymentEventPayment, got.Payments[0].Kind)
	assert.Equal(t, domain.PaymentPix, got.Payments[0].Method)
	assert.Equal(t, domain.PaymentCard, domain.PaymentMethod("card")) // enum sanity
	require.Len(t, sink.events, 1)
	assert.Equal(t, "Pedido quitado", sink.events[0].Title)
}

func TestRecordPayment_SettledOrderDoesNotRenotify(t *testing.T) {
	store := newMockOrderStore()
	sink := &mockSink{}
	svc := newOrderService(store, sink)
	order := createTestOrder(t, svc, 5000)

	_, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(5000), domain.PaymentPix)
	require.NoError(t, err)
	require.Len(t, sink.events, 1)

	// overpaying an already-settled order records the payment but fires
	// no second "Pedido quitado"
	got, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(1000), domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	require.Len(t, got.Payments, 2)
	assert.Len(t, sink.events, 1)
}

// Scenario: total 50.00, pay 70.00 — remaining floors at zero.
func TestRecordPayment_OverpaymentFloorsAtZero(t *testing.T) {
	svc := newOrderService(newMockOrderStore(), &mockSink{})
	order := createTestOrder(t, svc, 5000)

	got, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromDecimal(70.00), domain.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), got.AmountPaid.Cents)
	assert.Equal(t, int64(0), got.RemainingAmount.Cents)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
}

func TestRecordPayment_Validation(t *testing.T) {
	svc := newOrderService(newMockOrderStore(), &mockSink{})
	order := createTestOrder(t, svc, 5000)

	_, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(0), domain.PaymentCash)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(-100), domain.PaymentCash)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(100), "cheque")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.RecordPayment(context.Background(), 9999, domain.MoneyFromCents(100), domain.PaymentCash)
	assert.True(t, domain.IsNotFound(err))
}

// Invariant: remaining == max(0, total - paid) after any payment
// sequence, and payments only ever grow.
func TestRecordPayment_InvariantAndMonotonicity(t *testing.T) {
	store := newMockOrderStore()
	svc := newOrderService(store, &mockSink{})
	order := createTestOrder(t, svc, 33333)

	amounts := []int64{1, 9999, 12000, 20000}
	for i, cents := range amounts {
		got, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(cents), domain.PaymentCash)
		require.NoError(t, err)

		expectRemaining := got.Total.Sub(got.AmountPaid).FloorZero()
		assert.Equal(t, expectRemaining, got.RemainingAmount)
		require.Len(t, got.Payments, i+1)
		// earlier entries are untouched
		for j := 0; j <= i; j++ {
			assert.Equal(t, amounts[j], got.Payments[j].Amount.Cents)
		}
	}
}

func TestMarkFullyPaid(t *testing.T) {
	store := newMockOrderStore()
	svc := newOrderService(store, &mockSink{})
	order := createTestOrder(t, svc, 15000)

	_, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(6000), domain.PaymentPix)
	require.NoError(t, err)

	got, err := svc.MarkFullyPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, int64(15000), got.AmountPaid.Cents)
	require.Len(t, got.Payments, 2)
	assert.Equal(t, int64(9000), got.Payments[1].Amount.Cents)
	assert.Equal(t, domain.PaymentCash, got.Payments[1].Method)

	// already settled: no-op, no extra payment
	again, err := svc.MarkFullyPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, again.Payments, 2)
}

func TestSetFulfillmentStatus_FreeTransitionsAndNotify(t *testing.T) {
	store := newMockOrderStore()
	sink := &mockSink{}
	svc := newOrderService(store, sink)
	order := createTestOrder(t, svc, 5000)

	// any state is reachable from any state, including backwards
	for _, status := range []domain.FulfillmentStatus{
		domain.FulfillmentDelivered,
		domain.FulfillmentPending,
		domain.FulfillmentProduction,
		domain.FulfillmentFinished,
	} {
		got, err := svc.SetFulfillmentStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.FulfillmentStatus)
		// payment state is never touched by status changes
		assert.Equal(t, int64(0), got.AmountPaid.Cents)
		assert.Equal(t, int64(5000), got.RemainingAmount.Cents)
	}

	require.Len(t, sink.events, 4)
	ev := sink.events[0]
	assert.Equal(t, "pending", ev.Data["oldStatus"])
	assert.Equal(t, "delivered", ev.Data["newStatus"])
	assert.Equal(t, order.ID, ev.Data["orderId"])

	_, err := svc.SetFulfillmentStatus(context.Background(), order.ID, "shipped")
	assert.True(t, domain.IsValidation(err))
}

func TestRecordPayment_StoreFailureSurfaces(t *testing.T) {
	store := newMockOrderStore()
	svc := newOrderService(store, &mockSink{})
	order := createTestOrder(t, svc, 5000)

	store.err = fmt.Errorf("connection reset")
	_, err := svc.RecordPayment(context.Background(), order.ID, domain.MoneyFromCents(100), domain.PaymentCash)
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))
	assert.Contains(t, err.Error(), "connection reset")
}
