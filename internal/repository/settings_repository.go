package repository

import (
	"context"

	"printshop-backend/internal/db"
	"printshop-backend/internal/domain"
)

type SettingsRepository struct {
	DB *db.Postgres
}

func (r SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT business_name, business_address, business_phone, receipt_footer,
		       default_payment_method, default_commission_rate, currency_code, updated_at
		FROM settings
		WHERE id=1
	`)
	var s domain.Settings
	if err := row.Scan(
		&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.ReceiptFooter,
		&s.DefaultPaymentMethod, &s.DefaultCommissionRate, &s.CurrencyCode, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r SettingsRepository) Save(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO settings (id, business_name, business_address, business_phone, receipt_footer,
		                      default_payment_method, default_commission_rate, currency_code, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7, now())
		ON CONFLICT (id) DO UPDATE SET
			business_name=EXCLUDED.business_name,
			business_address=EXCLUDED.business_address,
			business_phone=EXCLUDED.business_phone,
			receipt_footer=EXCLUDED.receipt_footer,
			default_payment_method=EXCLUDED.default_payment_method,
			default_commission_rate=EXCLUDED.default_commission_rate,
			currency_code=EXCLUDED.currency_code,
			updated_at=now()
		RETURNING business_name, business_address, business_phone, receipt_footer,
		          default_payment_method, default_commission_rate, currency_code, updated_at
	`, s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.ReceiptFooter, s.DefaultPaymentMethod, s.DefaultCommissionRate, s.CurrencyCode).Scan(
		&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.ReceiptFooter,
		&s.DefaultPaymentMethod, &s.DefaultCommissionRate, &s.CurrencyCode, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
