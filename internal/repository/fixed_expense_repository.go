package repository

import (
	"context"
	"errors"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FixedExpenseRepository stores recurring payable templates.
type FixedExpenseRepository struct {
	DB *db.Postgres
}

func (r FixedExpenseRepository) Create(ctx context.Context, fe domain.FixedExpense) (*domain.FixedExpense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO fixed_expenses (name, amount, due_day, category, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING id, name, amount, due_day, category, active, created_at, updated_at
	`, fe.Name, fe.Amount.Cents, fe.DueDay, fe.Category, fe.Active)
	return scanFixedExpense(row)
}

func (r FixedExpenseRepository) Update(ctx context.Context, fe domain.FixedExpense) (*domain.FixedExpense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE fixed_expenses
		SET name=$2, amount=$3, due_day=$4, category=$5, active=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING id, name, amount, due_day, category, active, created_at, updated_at
	`, fe.ID, fe.Name, fe.Amount.Cents, fe.DueDay, fe.Category, fe.Active)
	out, err := scanFixedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("fixed expense %d not found", fe.ID)
		}
		return nil, err
	}
	return out, nil
}

func (r FixedExpenseRepository) List(ctx context.Context, onlyActive bool) ([]domain.FixedExpense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, amount, due_day, category, active, created_at, updated_at
		FROM fixed_expenses
		WHERE deleted_at IS NULL AND ($1 = false OR active)
		ORDER BY due_day ASC, id ASC
	`, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FixedExpense
	for rows.Next() {
		fe, err := scanFixedExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *fe)
	}
	return items, rows.Err()
}

// DueFrom lists active templates still due this month: due_day on or
// after the given day of month.
func (r FixedExpenseRepository) DueFrom(ctx context.Context, dayOfMonth int) ([]domain.FixedExpense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, amount, due_day, category, active, created_at, updated_at
		FROM fixed_expenses
		WHERE deleted_at IS NULL AND active AND due_day >= $1
		ORDER BY due_day ASC, id ASC
	`, dayOfMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FixedExpense
	for rows.Next() {
		fe, err := scanFixedExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *fe)
	}
	return items, rows.Err()
}

func (r FixedExpenseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE fixed_expenses SET deleted_at=now() WHERE id=$1`, id)
	return err
}

func scanFixedExpense(row interface {
	Scan(dest ...any) error
}) (*domain.FixedExpense, error) {
	var fe domain.FixedExpense
	if err := row.Scan(&fe.ID, &fe.Name, &fe.Amount.Cents, &fe.DueDay, &fe.Category, &fe.Active, &fe.CreatedAt, &fe.UpdatedAt); err != nil {
		return nil, err
	}
	return &fe, nil
}
