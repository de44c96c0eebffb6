package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	u.ID = uuid.New()

	query := `INSERT INTO users (id, email, password_hash, full_name, is_admin, is_guest, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.IsAdmin, u.IsGuest, u.IsActive,
	).Scan(&u.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, is_admin, is_guest, is_active, created_at, last_login_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsAdmin, &u.IsGuest,
		&u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, is_admin, is_guest, is_active, created_at, last_login_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsAdmin, &u.IsGuest,
		&u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

// GetPreference returns a per-user preference value, or "" when unset.
func (r *UserRepo) GetPreference(ctx context.Context, userID uuid.UUID, name string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		SELECT value FROM user_preferences WHERE user_id = $1 AND name = $2
	`, userID, name).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *UserRepo) SetPreference(ctx context.Context, userID uuid.UUID, name, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET value = EXCLUDED.value
	`, userID, name, value)
	return err
}
