package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type ViewLogRepo struct {
	pool *pgxpool.Pool
}

func NewViewLogRepo(pool *pgxpool.Pool) *ViewLogRepo {
	return &ViewLogRepo{pool: pool}
}

func (r *ViewLogRepo) Insert(ctx context.Context, e *models.ViewLogEntry) error {
	query := `INSERT INTO view_log (user_id, course_id, course_module_id, action, target, origin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	return r.pool.QueryRow(ctx, query,
		e.UserID, e.CourseID, e.CourseModuleID, e.Action, e.Target, e.Origin, e.CreatedAt,
	).Scan(&e.ID)
}

// FindLastViewed returns the newest "viewed" course-module entry a user
// produced from the web for a course, or nil when there is none.
func (r *ViewLogRepo) FindLastViewed(ctx context.Context, userID uuid.UUID, courseID int64) (*models.ViewLogEntry, error) {
	e := &models.ViewLogEntry{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, course_id, course_module_id, action, target, origin, created_at
		FROM view_log
		WHERE user_id = $1 AND course_id = $2
		  AND action = $3 AND target = $4 AND origin = $5
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, courseID, models.LogActionViewed, models.LogTargetModule, models.LogOriginWeb).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.CourseModuleID, &e.Action, &e.Target, &e.Origin, &e.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
