package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type FileRepo struct {
	pool *pgxpool.Pool
}

func NewFileRepo(pool *pgxpool.Pool) *FileRepo {
	return &FileRepo{pool: pool}
}

func (r *FileRepo) Create(ctx context.Context, f *models.StoredFile) error {
	query := `INSERT INTO stored_files
		(context_id, component, file_area, item_id, file_path, file_name, file_size, mime_type, disk_path, time_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING id, time_modified`

	return r.pool.QueryRow(ctx, query,
		f.ContextID, f.Component, f.FileArea, f.ItemID, f.FilePath, f.FileName,
		f.FileSize, f.MimeType, f.DiskPath,
	).Scan(&f.ID, &f.TimeModified)
}

// ListAreaFiles returns all files of one file area in stable name order.
func (r *FileRepo) ListAreaFiles(ctx context.Context, contextID int64, component, fileArea string, itemID int64) ([]*models.StoredFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, context_id, component, file_area, item_id, file_path, file_name,
			file_size, mime_type, disk_path, time_modified
		FROM stored_files
		WHERE context_id = $1 AND component = $2 AND file_area = $3 AND item_id = $4
		ORDER BY file_path, file_name
	`, contextID, component, fileArea, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.StoredFile
	for rows.Next() {
		f := &models.StoredFile{}
		if err := rows.Scan(&f.ID, &f.ContextID, &f.Component, &f.FileArea, &f.ItemID,
			&f.FilePath, &f.FileName, &f.FileSize, &f.MimeType, &f.DiskPath, &f.TimeModified); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetByPath resolves the exact file addressed by a pluginfile URL.
func (r *FileRepo) GetByPath(ctx context.Context, contextID int64, component, fileArea string, itemID int64, filePath, fileName string) (*models.StoredFile, error) {
	f := &models.StoredFile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, context_id, component, file_area, item_id, file_path, file_name,
			file_size, mime_type, disk_path, time_modified
		FROM stored_files
		WHERE context_id = $1 AND component = $2 AND file_area = $3 AND item_id = $4
		  AND file_path = $5 AND file_name = $6
	`, contextID, component, fileArea, itemID, filePath, fileName).Scan(
		&f.ID, &f.ContextID, &f.Component, &f.FileArea, &f.ItemID,
		&f.FilePath, &f.FileName, &f.FileSize, &f.MimeType, &f.DiskPath, &f.TimeModified)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FileRepo) DeleteArea(ctx context.Context, contextID int64, component, fileArea string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM stored_files WHERE context_id = $1 AND component = $2 AND file_area = $3
	`, contextID, component, fileArea)
	return err
}
