package repository

import (
	"context"
	"errors"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ProductRepository stores the print catalog: services and goods with
// a unit price (per piece, per square meter, per thousand).
type ProductRepository struct {
	DB *db.Postgres
}

func (r ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, category, unit_price, unit, customizable, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice.Cents, &p.Unit, &p.Customizable, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, category, unit_price, unit, customizable, created_at, updated_at
		FROM products
		WHERE id=$1 AND deleted_at IS NULL
	`, id)

	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice.Cents, &p.Unit, &p.Customizable, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("product %d not found", id)
		}
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == 0 {
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO products (name, category, unit_price, unit, customizable, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, name, category, unit_price, unit, customizable, created_at, updated_at
		`, p.Name, p.Category, p.UnitPrice.Cents, p.Unit, p.Customizable).
			Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice.Cents, &p.Unit, &p.Customizable, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1, category=$2, unit_price=$3, unit=$4, customizable=$5, updated_at=now(), deleted_at=NULL
		WHERE id=$6
		RETURNING id, name, category, unit_price, unit, customizable, created_at, updated_at
	`, p.Name, p.Category, p.UnitPrice.Cents, p.Unit, p.Customizable, p.ID).
		Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice.Cents, &p.Unit, &p.Customizable, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("product %d not found", p.ID)
		}
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE products SET deleted_at = now() WHERE id=$1`, id)
	return err
}
