package repository

import (
	"context"
	"time"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FinanceRepository stores the cash-flow ledger: revenue and expense
// entries, including commission payouts.
type FinanceRepository struct {
	DB *db.Postgres
}

func (r FinanceRepository) CreateEntry(ctx context.Context, e *domain.FinanceEntry) (*domain.FinanceEntry, error) {
	var out domain.FinanceEntry
	var entryType string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO finance_entries (title, amount, category, entry_date, type, note, order_code, seller, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
		RETURNING id, title, amount, category, entry_date, type, note, order_code, seller, created_at
	`, e.Title, e.Amount.Cents, e.Category, e.Date.Format("2006-01-02"), string(e.Type), e.Note, e.OrderCode, e.Seller).Scan(
		&out.ID, &out.Title, &out.Amount.Cents, &out.Category, &out.Date, &entryType, &out.Note, &out.OrderCode, &out.Seller, &out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	out.Type = domain.FinanceEntryType(entryType)
	return &out, nil
}

func (r FinanceRepository) List(ctx context.Context, limit int) ([]domain.FinanceEntry, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, amount, category, entry_date, type, note, order_code, seller, created_at
		FROM finance_entries
		WHERE deleted_at IS NULL
		ORDER BY entry_date DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r FinanceRepository) ListFiltered(ctx context.Context, startDate, endDate *time.Time) ([]domain.FinanceEntry, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, amount, category, entry_date, type, note, order_code, seller, created_at
		FROM finance_entries
		WHERE deleted_at IS NULL
		  AND ($1::date IS NULL OR entry_date >= $1)
		  AND ($2::date IS NULL OR entry_date <= $2)
		ORDER BY entry_date DESC, id DESC
	`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]domain.FinanceEntry, error) {
	var items []domain.FinanceEntry
	for rows.Next() {
		var fe domain.FinanceEntry
		var t string
		if err := rows.Scan(&fe.ID, &fe.Title, &fe.Amount.Cents, &fe.Category, &fe.Date, &t, &fe.Note, &fe.OrderCode, &fe.Seller, &fe.CreatedAt); err != nil {
			return nil, err
		}
		fe.Type = domain.FinanceEntryType(t)
		items = append(items, fe)
	}
	return items, rows.Err()
}
