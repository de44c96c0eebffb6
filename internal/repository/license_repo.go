package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type LicenseRepo struct {
	pool *pgxpool.Pool
}

func NewLicenseRepo(pool *pgxpool.Pool) *LicenseRepo {
	return &LicenseRepo{pool: pool}
}

// Get returns the stored license. A missing row means no key was ever
// activated on this install.
func (r *LicenseRepo) Get(ctx context.Context) (*models.License, error) {
	l := &models.License{}
	err := r.pool.QueryRow(ctx, `
		SELECT key, status, expires_at, checked_at FROM license LIMIT 1
	`).Scan(&l.Key, &l.Status, &l.ExpiresAt, &l.CheckedAt)
	if err == pgx.ErrNoRows {
		return &models.License{Status: models.LicenseMissing}, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LicenseRepo) Save(ctx context.Context, l *models.License) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO license (id, key, status, expires_at, checked_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET key = EXCLUDED.key, status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at, checked_at = NOW()
	`, l.Key, l.Status, l.ExpiresAt)
	return err
}
