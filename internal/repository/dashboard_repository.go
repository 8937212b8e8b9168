package repository

import (
	"context"
	"time"

	"printshop-backend/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	TotalRevenue       int64
	TotalOrders        int64
	TodayRevenue       int64
	Receivables        int64
	OpenInstallments   int64
	OpenInstallmentSum int64
}

type DashboardItem struct {
	Name   string
	Amount int64
	Count  int64
}

type SalesPoint struct {
	Label  string
	Amount int64
}

// Summary aggregates revenue (amounts actually paid), receivables
// (what open orders still owe) and pending supplier installments.
func (r DashboardRepository) Summary(ctx context.Context) (DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount_paid),0) AS total_revenue,
			COUNT(*) AS total_orders,
			COALESCE(SUM(amount_paid) FILTER (WHERE created_at::date = CURRENT_DATE),0) AS today_revenue,
			COALESCE(SUM(remaining_amount),0) AS receivables
		FROM orders
		WHERE deleted_at IS NULL
	`).Scan(&s.TotalRevenue, &s.TotalOrders, &s.TodayRevenue, &s.Receivables)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount),0)
		FROM pending_installments
		WHERE deleted_at IS NULL AND paid = false
	`).Scan(&s.OpenInstallments, &s.OpenInstallmentSum)
	return s, err
}

func (r DashboardRepository) TopSellers(ctx context.Context, limit int) ([]DashboardItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT seller_name, COALESCE(SUM(total),0) AS amount, COUNT(*) AS cnt
		FROM orders
		WHERE deleted_at IS NULL AND seller_name <> ''
		GROUP BY seller_name
		ORDER BY amount DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DashboardItem
	for rows.Next() {
		var it DashboardItem
		if err := rows.Scan(&it.Name, &it.Amount, &it.Count); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r DashboardRepository) SalesSeries(ctx context.Context, days int) ([]SalesPoint, error) {
	start := time.Now().AddDate(0, 0, -days+1).Format("2006-01-02")
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT created_at::date::text, COALESCE(SUM(amount_paid),0) AS amount
		FROM orders
		WHERE deleted_at IS NULL
		  AND created_at::date >= $1::date
		GROUP BY created_at::date
		ORDER BY created_at::date ASC
	`, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []SalesPoint
	for rows.Next() {
		var p SalesPoint
		if err := rows.Scan(&p.Label, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
