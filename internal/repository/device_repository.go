package repository

import (
	"context"
	"strings"

	"carenet/internal/database"

	"github.com/google/uuid"
)

type DeviceRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, token, platform string) error
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type PostgresDeviceRepository struct {
	db database.DB
}

func NewPostgresDeviceRepository(db database.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{db: db}
}

// Upsert moves a token to userID when another account registered it before.
func (r *PostgresDeviceRepository) Upsert(ctx context.Context, userID uuid.UUID, token, platform string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO device_tokens (token, user_id, platform) VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`,
		strings.TrimSpace(token), userID, strings.ToLower(strings.TrimSpace(platform)),
	)
	return err
}

func (r *PostgresDeviceRepository) TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT token FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresDeviceRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM device_tokens WHERE token = ANY($1)`, tokens)
	return err
}
