package repository

import (
	"context"
	"errors"
	"time"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderRepository persists orders with items and payments as nested
// jsonb, one row per order.
type OrderRepository struct {
	DB *db.Postgres
}

const orderColumns = `
	id, code, customer_id, customer_name, seller_id, seller_name,
	items, payments, total, amount_paid, remaining_amount,
	payment_status, fulfillment_status, created_at, updated_at`

func (r OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO orders
		(code, customer_id, customer_name, seller_id, seller_name,
		 items, payments, total, amount_paid, remaining_amount,
		 payment_status, fulfillment_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, now(), now())
		RETURNING `+orderColumns+`
	`, o.Code, o.CustomerID, o.CustomerName, o.SellerID, o.SellerName,
		o.Items, o.Payments, o.Total.Cents, o.AmountPaid.Cents, o.RemainingAmount.Cents,
		string(o.PaymentStatus), string(o.FulfillmentStatus))
	return scanOrder(row)
}

func (r OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("order %d not found", id)
		}
		return nil, err
	}
	return o, nil
}

// UpdatePaymentState writes the money state and the grown payments
// array in one statement so a lost update under concurrent writers is
// at least internally consistent.
func (r OrderRepository) UpdatePaymentState(ctx context.Context, o *domain.Order) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE orders
		SET amount_paid=$2,
		    remaining_amount=$3,
		    payment_status=$4,
		    payments=$5,
		    updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, o.ID, o.AmountPaid.Cents, o.RemainingAmount.Cents, string(o.PaymentStatus), o.Payments)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("order %d not found", o.ID)
	}
	return nil
}

func (r OrderRepository) UpdateFulfillment(ctx context.Context, id int64, status domain.FulfillmentStatus) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE orders
		SET fulfillment_status=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("order %d not found", id)
	}
	return nil
}

func (r OrderRepository) List(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r OrderRepository) ListByPeriod(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE deleted_at IS NULL
		  AND created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row interface {
	Scan(dest ...any) error
}) (*domain.Order, error) {
	var (
		o             domain.Order
		customerID    pgtype.Int8
		sellerID      pgtype.Int8
		payStatus     string
		fulfillStatus string
	)
	if err := row.Scan(
		&o.ID, &o.Code, &customerID, &o.CustomerName, &sellerID, &o.SellerName,
		&o.Items, &o.Payments, &o.Total.Cents, &o.AmountPaid.Cents, &o.RemainingAmount.Cents,
		&payStatus, &fulfillStatus, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if customerID.Valid {
		o.CustomerID = &customerID.Int64
	}
	if sellerID.Valid {
		o.SellerID = &sellerID.Int64
	}
	o.PaymentStatus = domain.PaymentStatus(payStatus)
	o.FulfillmentStatus = domain.FulfillmentStatus(fulfillStatus)
	if o.Payments == nil {
		o.Payments = []domain.Payment{}
	}
	return &o, nil
}
