package repository

import (
	"context"
	"errors"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// InstallmentRepository stores pending installments flat, one row per
// installment. A purchase is only the set of rows created together.
type InstallmentRepository struct {
	DB *db.Postgres
}

const installmentColumns = `
	id, supplier_id, supplier_name, description, category,
	installment_number, total_installments, amount, total_amount,
	due_date, paid, paid_at, notes, created_at, updated_at`

// CreateBatch inserts every row of a split inside one transaction so a
// failure partway leaves nothing behind.
func (r InstallmentRepository) CreateBatch(ctx context.Context, batch []domain.PendingInstallment) ([]domain.PendingInstallment, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]domain.PendingInstallment, 0, len(batch))
	for _, in := range batch {
		row := tx.QueryRow(ctx, `
			INSERT INTO pending_installments
			(supplier_id, supplier_name, description, category,
			 installment_number, total_installments, amount, total_amount,
			 due_date, paid, notes, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,false,$10, now(), now())
			RETURNING `+installmentColumns+`
		`, in.SupplierID, in.SupplierName, in.Description, in.Category,
			in.InstallmentNumber, in.TotalInstallments, in.Amount.Cents, in.TotalAmount.Cents,
			in.DueDate, in.Notes)
		created, err := scanInstallment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r InstallmentRepository) Get(ctx context.Context, id int64) (*domain.PendingInstallment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+installmentColumns+`
		FROM pending_installments
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	inst, err := scanInstallment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("installment %d not found", id)
		}
		return nil, err
	}
	return inst, nil
}

func (r InstallmentRepository) GetBatch(ctx context.Context, ids []int64) ([]domain.PendingInstallment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+installmentColumns+`
		FROM pending_installments
		WHERE id = ANY($1) AND deleted_at IS NULL
		ORDER BY installment_number ASC, id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func (r InstallmentRepository) Update(ctx context.Context, in *domain.PendingInstallment) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE pending_installments
		SET supplier_id=$2,
		    supplier_name=$3,
		    description=$4,
		    category=$5,
		    amount=$6,
		    due_date=$7,
		    paid=$8,
		    paid_at=$9,
		    notes=$10,
		    updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, in.ID, in.SupplierID, in.SupplierName, in.Description, in.Category,
		in.Amount.Cents, in.DueDate, in.Paid, in.PaidAt, in.Notes)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("installment %d not found", in.ID)
	}
	return nil
}

func (r InstallmentRepository) DeleteBatch(ctx context.Context, ids []int64) error {
	_, err := r.DB.Pool.Exec(ctx, `
		UPDATE pending_installments
		SET deleted_at=now()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, ids)
	return err
}

func (r InstallmentRepository) List(ctx context.Context, onlyUnpaid bool, limit int) ([]domain.PendingInstallment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+installmentColumns+`
		FROM pending_installments
		WHERE deleted_at IS NULL AND ($1 = false OR paid = false)
		ORDER BY due_date ASC, id ASC
		LIMIT $2
	`, onlyUnpaid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstallments(rows)
}

func collectInstallments(rows pgx.Rows) ([]domain.PendingInstallment, error) {
	var out []domain.PendingInstallment
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func scanInstallment(row interface {
	Scan(dest ...any) error
}) (*domain.PendingInstallment, error) {
	var (
		in         domain.PendingInstallment
		supplierID pgtype.Int8
		paidAt     pgtype.Timestamptz
	)
	if err := row.Scan(
		&in.ID, &supplierID, &in.SupplierName, &in.Description, &in.Category,
		&in.InstallmentNumber, &in.TotalInstallments, &in.Amount.Cents, &in.TotalAmount.Cents,
		&in.DueDate, &in.Paid, &paidAt, &in.Notes, &in.CreatedAt, &in.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if supplierID.Valid {
		in.SupplierID = &supplierID.Int64
	}
	if paidAt.Valid {
		t := paidAt.Time
		in.PaidAt = &t
	}
	return &in, nil
}
