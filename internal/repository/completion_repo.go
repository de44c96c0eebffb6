package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type CompletionRepo struct {
	pool *pgxpool.Pool
}

func NewCompletionRepo(pool *pgxpool.Pool) *CompletionRepo {
	return &CompletionRepo{pool: pool}
}

// Get returns the completion row for a module/user pair. A missing row
// means the module is simply incomplete for that user.
func (r *CompletionRepo) Get(ctx context.Context, cmID int64, userID uuid.UUID) (*models.CompletionData, error) {
	d := &models.CompletionData{}
	err := r.pool.QueryRow(ctx, `
		SELECT course_module_id, user_id, state, viewed_at, updated_at
		FROM module_completion
		WHERE course_module_id = $1 AND user_id = $2
	`, cmID, userID).Scan(&d.CourseModuleID, &d.UserID, &d.State, &d.ViewedAt, &d.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &models.CompletionData{
			CourseModuleID: cmID,
			UserID:         userID,
			State:          models.CompletionIncomplete,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *CompletionRepo) SetState(ctx context.Context, cmID int64, userID uuid.UUID, state models.CompletionState) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO module_completion (course_module_id, user_id, state, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (course_module_id, user_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`, cmID, userID, state)
	return err
}

// MarkViewed records the view timestamp and, for view-tracked modules,
// flips the state to complete.
func (r *CompletionRepo) MarkViewed(ctx context.Context, cmID int64, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO module_completion (course_module_id, user_id, state, viewed_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (course_module_id, user_id)
		DO UPDATE SET viewed_at = NOW(), updated_at = NOW()
	`, cmID, userID, models.CompletionIncomplete)
	return err
}

// MapForCourse loads all completion states of one user across a course,
// keyed by course module id. One query per page render instead of one
// per module.
func (r *CompletionRepo) MapForCourse(ctx context.Context, courseID int64, userID uuid.UUID) (map[int64]models.CompletionState, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT mc.course_module_id, mc.state
		FROM module_completion mc
		JOIN course_modules cm ON cm.id = mc.course_module_id
		WHERE cm.course_id = $1 AND mc.user_id = $2
	`, courseID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make(map[int64]models.CompletionState)
	for rows.Next() {
		var cmID int64
		var state models.CompletionState
		if err := rows.Scan(&cmID, &state); err != nil {
			return nil, err
		}
		states[cmID] = state
	}
	return states, rows.Err()
}
