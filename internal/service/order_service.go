package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"printshop-backend/internal/domain"
	"github.com/google/uuid"
)

// OrderService owns the payment lifecycle of an order. RecordPayment is
// the single authoritative money transition; every other mutation
// leaves amountPaid, remainingAmount and payments untouched.
type OrderService struct {
	Orders OrderStore
	Sink   NotificationSink
	Logger *slog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

type CreateOrderInput struct {
	CustomerID   *int64
	CustomerName string
	SellerID     *int64
	SellerName   string
	Items        []OrderItemInput
}

type OrderItemInput struct {
	ProductID   *int64
	Name        string
	Quantity    int
	UnitPrice   domain.Money
	Variation   string
	Finishing   string
	Dimensions  string
	Description string
}

func (s OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s OrderService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// CreateOrder computes the total from items; a client-entered total is
// never trusted for a new order.
func (s OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validationf("order needs at least one item")
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	var total domain.Money
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.Validationf("item %d: quantity must be positive", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.Validationf("item %d: unit price must not be negative", i+1)
		}
		line := it.UnitPrice.Mul(it.Quantity)
		total = total.Add(line)
		items = append(items, domain.OrderItem{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   line,
			Variation:   it.Variation,
			Finishing:   it.Finishing,
			Dimensions:  it.Dimensions,
			Description: it.Description,
		})
	}

	now := s.now()
	order := &domain.Order{
		Code:              fmt.Sprintf("OS-%d", now.UnixNano()/1e6),
		CustomerID:        in.CustomerID,
		CustomerName:      in.CustomerName,
		SellerID:          in.SellerID,
		SellerName:        in.SellerName,
		Items:             items,
		Total:             total,
		AmountPaid:        domain.Money{},
		RemainingAmount:   total,
		PaymentStatus:     domain.PaymentStatusFor(total, domain.Money{}),
		FulfillmentStatus: domain.FulfillmentPending,
		Payments:          []domain.Payment{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.Orders.Create(ctx, order)
	if err != nil {
		return nil, domain.StoreErr("create order", err)
	}
	return created, nil
}

// RecordPayment applies one payment. Overpayment is accepted; the
// remaining balance floors at zero. Payments only ever grow.
func (s OrderService) RecordPayment(ctx context.Context, orderID int64, amount domain.Money, method domain.PaymentMethod) (*domain.Order, error) {
	if !amount.IsPositive() {
		return nil, domain.Validationf("payment amount must be positive")
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Validationf("unknown payment method %q", method)
	}

	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, domain.StoreErr("load order", err)
	}

	now := s.now()
	wasPaid := order.PaymentStatus == domain.PaymentPaid
	order.AmountPaid = order.AmountPaid.Add(amount)
	order.RemainingAmount = order.Total.Sub(order.AmountPaid).FloorZero()
	order.PaymentStatus = domain.PaymentStatusFor(order.Total, order.AmountPaid)
	order.Payments = append(order.Payments, domain.Payment{
		ID:     s.newID(),
		Kind:   domain.PaymentEventPayment,
		Amount: amount,
		Date:   now,
		Method: method,
	})
	order.UpdatedAt = now

	if err := s.Orders.UpdatePaymentState(ctx, order); err != nil {
		return nil, domain.StoreErr("record payment", err)
	}

	// only the transition into paid notifies; further payments on a
	// settled order stay silent
	if order.PaymentStatus == domain.PaymentPaid && !wasPaid && s.Sink != nil {
		s.Sink.Notify(ctx, domain.NotificationEvent{
			Type:    domain.NotificationInfo,
			Title:   "Pedido quitado",
			Message: fmt.Sprintf("%s — %s foi totalmente pago", order.Code, order.CustomerName),
			Data: map[string]any{
				"orderId":  order.ID,
				"sellerId": order.SellerID,
				"amount":   order.AmountPaid.Decimal(),
			},
		})
	}
	return order, nil
}

// MarkFullyPaid settles the remaining balance as a cash payment. It
// routes through RecordPayment so every invariant holds; it never sets
// money fields directly.
func (s OrderService) MarkFullyPaid(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, domain.StoreErr("load order", err)
	}
	if !order.RemainingAmount.IsPositive() {
		return order, nil
	}
	return s.RecordPayment(ctx, orderID, order.RemainingAmount, domain.PaymentCash)
}

// SetFulfillmentStatus moves the order to any known status; there is
// no transition table. Payment state is untouched.
func (s OrderService) SetFulfillmentStatus(ctx context.Context, orderID int64, status domain.FulfillmentStatus) (*domain.Order, error) {
	if !domain.ValidFulfillmentStatus(status) {
		return nil, domain.Validationf("unknown fulfillment status %q", status)
	}

	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, domain.StoreErr("load order", err)
	}
	old := order.FulfillmentStatus
	if err := s.Orders.UpdateFulfillment(ctx, orderID, status); err != nil {
		return nil, domain.StoreErr("update fulfillment status", err)
	}
	order.FulfillmentStatus = status
	order.UpdatedAt = s.now()

	if s.Sink != nil {
		s.Sink.Notify(ctx, domain.NotificationEvent{
			Type:    domain.NotificationInfo,
			Title:   "Status do pedido",
			Message: fmt.Sprintf("%s — %s: %s → %s", order.Code, order.CustomerName, old, status),
			Data: map[string]any{
				"orderId":      order.ID,
				"customerName": order.CustomerName,
				"oldStatus":    string(old),
				"newStatus":    string(status),
				"sellerId":     order.SellerID,
			},
		})
	}
	return order, nil
}
