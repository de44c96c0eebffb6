package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type VideoActivityRepo struct {
	pool *pgxpool.Pool
}

func NewVideoActivityRepo(pool *pgxpool.Pool) *VideoActivityRepo {
	return &VideoActivityRepo{pool: pool}
}

func (r *VideoActivityRepo) Create(ctx context.Context, a *models.VideoActivity) error {
	a.TimeCreated = time.Now()
	a.TimeModified = a.TimeCreated

	query := `INSERT INTO video_activities
		(course_id, name, intro, source_type, source_path, has_resources, has_transcript, time_created, time_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return r.pool.QueryRow(ctx, query,
		a.CourseID, a.Name, a.Intro, a.SourceType, a.SourcePath,
		a.HasResources, a.HasTranscript, a.TimeCreated, a.TimeModified,
	).Scan(&a.ID)
}

func (r *VideoActivityRepo) Update(ctx context.Context, a *models.VideoActivity) error {
	a.TimeModified = time.Now()

	_, err := r.pool.Exec(ctx, `
		UPDATE video_activities
		SET name = $1, intro = $2, source_type = $3, source_path = $4,
			has_resources = $5, has_transcript = $6, time_modified = $7
		WHERE id = $8
	`, a.Name, a.Intro, a.SourceType, a.SourcePath, a.HasResources, a.HasTranscript, a.TimeModified, a.ID)
	return err
}

func (r *VideoActivityRepo) GetByID(ctx context.Context, id int64) (*models.VideoActivity, error) {
	a := &models.VideoActivity{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, name, intro, source_type, source_path,
			has_resources, has_transcript, time_created, time_modified
		FROM video_activities WHERE id = $1
	`, id).Scan(&a.ID, &a.CourseID, &a.Name, &a.Intro, &a.SourceType, &a.SourcePath,
		&a.HasResources, &a.HasTranscript, &a.TimeCreated, &a.TimeModified)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *VideoActivityRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM video_activities WHERE id = $1`, id)
	return err
}

func (r *VideoActivityRepo) SetFlags(ctx context.Context, id int64, hasResources, hasTranscript bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE video_activities SET has_resources = $1, has_transcript = $2, time_modified = NOW()
		WHERE id = $3
	`, hasResources, hasTranscript, id)
	return err
}

func (r *VideoActivityRepo) SetSourcePath(ctx context.Context, id int64, sourcePath string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE video_activities SET source_path = $1, time_modified = NOW() WHERE id = $2
	`, sourcePath, id)
	return err
}
