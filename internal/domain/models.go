package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"

	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"

	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentProduction FulfillmentStatus = "production"
	FulfillmentFinished   FulfillmentStatus = "finished"
	FulfillmentDelivered  FulfillmentStatus = "delivered"

	// PaymentEventPayment is a dated, method-tagged payment recorded
	// against an order. The kind tag is required; variants are never
	// inferred from which optional fields happen to be set.
	PaymentEventPayment     PaymentEventKind = "payment"
	PaymentEventInstallment PaymentEventKind = "installment"

	FinanceRevenue FinanceEntryType = "revenue"
	FinanceExpense FinanceEntryType = "expense"

	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type UserRole string
type PaymentMethod string
type PaymentStatus string
type FulfillmentStatus string
type PaymentEventKind string
type FinanceEntryType string
type NotificationType string

// ValidFulfillmentStatus reports whether s names a known status. Any
// status may transition to any other; the UI gates moves, the ledger
// does not.
func ValidFulfillmentStatus(s FulfillmentStatus) bool {
	switch s {
	case FulfillmentPending, FulfillmentProduction, FulfillmentFinished, FulfillmentDelivered:
		return true
	}
	return false
}

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard:
		return true
	}
	return false
}

// PaymentStatusFor derives the payment status from amounts. paid iff
// nothing remains and something was paid (or the order is free);
// partial iff something but not everything was paid.
func PaymentStatusFor(total, amountPaid Money) PaymentStatus {
	switch {
	case total.IsZero():
		return PaymentPaid
	case amountPaid.Cents >= total.Cents && amountPaid.IsPositive():
		return PaymentPaid
	case amountPaid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Address      string
	Role         UserRole
	IsGoogle     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Product is a catalog entry for a print service or good.
type Product struct {
	ID           int64
	Name         string
	Category     string
	UnitPrice    Money
	Unit         string
	Customizable bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Seller is a staff member orders are attributed to for commission.
type Seller struct {
	ID             int64
	Name           string
	Phone          string
	Email          string
	CommissionRate *float64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Order is a sale: items, a running payment balance, and an independent
// fulfillment status. Total is always recomputed from items; payments
// are append-only.
type Order struct {
	ID                int64
	Code              string
	CustomerID        *int64
	CustomerName      string
	SellerID          *int64
	SellerName        string
	Items             []OrderItem
	Total             Money
	AmountPaid        Money
	RemainingAmount   Money
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	Payments          []Payment
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// OrderItem is stored nested on the order (jsonb), not in its own table.
type OrderItem struct {
	ProductID   *int64 `json:"productId,omitempty"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
	LineTotal   Money  `json:"lineTotal"`
	Variation   string `json:"variation,omitempty"`
	Finishing   string `json:"finishing,omitempty"`
	Dimensions  string `json:"dimensions,omitempty"`
	Description string `json:"description,omitempty"`
}

// Payment is one event in an order's payments array.
type Payment struct {
	ID     string           `json:"id"`
	Kind   PaymentEventKind `json:"kind"`
	Amount Money            `json:"amount"`
	Date   time.Time        `json:"date"`
	Method PaymentMethod    `json:"method"`
}

// PendingInstallment is one row of a split payable. Rows created
// together share supplier/description/totalAmount; there is no
// separate purchase entity.
type PendingInstallment struct {
	ID                int64
	SupplierID        *int64
	SupplierName      string
	Description       string
	Category          string
	InstallmentNumber int
	TotalInstallments int
	Amount            Money
	TotalAmount       Money
	DueDate           time.Time
	Paid              bool
	PaidAt            *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// FixedExpense is a recurring payable template, not an installment.
type FixedExpense struct {
	ID        int64
	Name      string
	Amount    Money
	DueDay    int
	Category  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type FinanceEntry struct {
	ID        int64
	Title     string
	Amount    Money
	Category  string
	Date      time.Time
	Type      FinanceEntryType
	Note      string
	OrderCode *string
	Seller    *string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// SellerCommission is derived, never persisted.
type SellerCommission struct {
	SellerID         int64
	SellerName       string
	TotalSales       Money
	CommissionAmount Money
	OrdersCount      int
	Orders           []Order
}

type Notification struct {
	ID        int64
	UserID    *int64
	Title     string
	Message   string
	Type      NotificationType
	CreatedAt time.Time
	ReadAt    *time.Time
	DeletedAt *time.Time
}

// NotificationEvent is what the ledger hands to the sink; the sink
// persists a row and pushes to registered devices.
type NotificationEvent struct {
	Type         NotificationType
	Title        string
	Message      string
	Data         map[string]any
	TargetUserID *int64
}

type Settings struct {
	BusinessName          string
	BusinessAddress       string
	BusinessPhone         string
	ReceiptFooter         string
	DefaultPaymentMethod  string
	DefaultCommissionRate float64
	CurrencyCode          string
	UpdatedAt             time.Time
}
