package repository

import (
	"context"
	"errors"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SellerRepository stores the staff members orders are attributed to.
type SellerRepository struct {
	DB *db.Postgres
}

func (r SellerRepository) List(ctx context.Context, onlyActive bool) ([]domain.Seller, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, commission_rate, active, created_at, updated_at
		FROM sellers
		WHERE deleted_at IS NULL AND ($1 = false OR active)
		ORDER BY name ASC
	`, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Seller
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r SellerRepository) GetByID(ctx context.Context, id int64) (*domain.Seller, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, phone, email, commission_rate, active, created_at, updated_at
		FROM sellers
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	s, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("seller %d not found", id)
		}
		return nil, err
	}
	return s, nil
}

func (r SellerRepository) Save(ctx context.Context, s domain.Seller) (*domain.Seller, error) {
	if s.ID == 0 {
		row := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO sellers (name, phone, email, commission_rate, active, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, name, phone, email, commission_rate, active, created_at, updated_at
		`, s.Name, s.Phone, s.Email, s.CommissionRate, s.Active)
		return scanSeller(row)
	}

	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE sellers
		SET name=$1, phone=$2, email=$3, commission_rate=$4, active=$5, updated_at=now()
		WHERE id=$6 AND deleted_at IS NULL
		RETURNING id, name, phone, email, commission_rate, active, created_at, updated_at
	`, s.Name, s.Phone, s.Email, s.CommissionRate, s.Active, s.ID)
	out, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("seller %d not found", s.ID)
		}
		return nil, err
	}
	return out, nil
}

func (r SellerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE sellers SET deleted_at = now() WHERE id=$1`, id)
	return err
}

func scanSeller(row interface {
	Scan(dest ...any) error
}) (*domain.Seller, error) {
	var (
		s    domain.Seller
		rate pgtype.Float8
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &rate, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if rate.Valid {
		s.CommissionRate = &rate.Float64
	}
	return &s, nil
}
