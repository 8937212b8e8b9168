package repository

import (
	"context"

	"printshop-backend/internal/db"
)

type FCMRepository struct {
	DB *db.Postgres
}

type RegisterTokenInput struct {
	UserID      *int64
	Token       string
	Platform    string
	DeviceModel string
}

// Register upserts on the token so a device re-registering after a
// login switch moves to the new user instead of duplicating.
func (r FCMRepository) Register(ctx context.Context, in RegisterTokenInput) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO fcm_tokens (user_id, token, platform, device_model, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		ON CONFLICT (token) DO UPDATE SET
			user_id=EXCLUDED.user_id,
			platform=EXCLUDED.platform,
			device_model=EXCLUDED.device_model,
			updated_at=now()
	`, in.UserID, in.Token, in.Platform, in.DeviceModel)
	return err
}

// ListTokens returns all registered device tokens. When userID is nil
// every device is included (broadcast), otherwise only that user's.
func (r FCMRepository) ListTokens(ctx context.Context, userID *int64) ([]string, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT token FROM fcm_tokens
		WHERE $1::bigint IS NULL OR user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
