package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath-backend/internal/models"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	c := &models.Course{}
	query := `SELECT id, category_id, full_name, short_name, summary, format, enable_completion, created_at
		FROM courses WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CategoryID, &c.FullName, &c.ShortName, &c.Summary, &c.Format,
		&c.EnableCompletion, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepo) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	cat := &models.Category{}
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// EnsureGeneralSection creates section 0 for a course if it does not
// exist yet. Every course view relies on section 0 being present.
func (r *CourseRepo) EnsureGeneralSection(ctx context.Context, courseID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sections (course_id, number, name, summary, visible)
		VALUES ($1, 0, '', '', TRUE)
		ON CONFLICT (course_id, number) DO NOTHING
	`, courseID)
	return err
}

func (r *CourseRepo) ListSections(ctx context.Context, courseID int64) ([]*models.Section, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, number, name, summary, visible
		FROM sections WHERE course_id = $1 ORDER BY number
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		s := &models.Section{}
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Number, &s.Name, &s.Summary, &s.Visible); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *CourseRepo) ListModules(ctx context.Context, courseID int64) ([]*models.CourseModule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cm.id, cm.course_id, cm.section_id, s.number, cm.mod_name, cm.instance,
			cm.name, cm.position, cm.visible, cm.completion, COALESCE(cm.available_info, '')
		FROM course_modules cm
		JOIN sections s ON s.id = cm.section_id
		WHERE cm.course_id = $1
		ORDER BY s.number, cm.position, cm.id
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mods []*models.CourseModule
	for rows.Next() {
		cm := &models.CourseModule{}
		if err := rows.Scan(&cm.ID, &cm.CourseID, &cm.SectionID, &cm.SectionNum, &cm.ModName,
			&cm.Instance, &cm.Name, &cm.Position, &cm.Visible, &cm.Completion, &cm.AvailableInfo); err != nil {
			return nil, err
		}
		mods = append(mods, cm)
	}
	return mods, rows.Err()
}

func (r *CourseRepo) GetModuleByID(ctx context.Context, id int64) (*models.CourseModule, error) {
	cm := &models.CourseModule{}
	err := r.pool.QueryRow(ctx, `
		SELECT cm.id, cm.course_id, cm.section_id, s.number, cm.mod_name, cm.instance,
			cm.name, cm.position, cm.visible, cm.completion, COALESCE(cm.available_info, '')
		FROM course_modules cm
		JOIN sections s ON s.id = cm.section_id
		WHERE cm.id = $1
	`, id).Scan(&cm.ID, &cm.CourseID, &cm.SectionID, &cm.SectionNum, &cm.ModName,
		&cm.Instance, &cm.Name, &cm.Position, &cm.Visible, &cm.Completion, &cm.AvailableInfo)
	if err != nil {
		return nil, err
	}
	return cm, nil
}

// GetModuleByTypeAndID resolves a course module only when its type tag
// matches; callers use this for canonical (modtype, modid) URLs.
func (r *CourseRepo) GetModuleByTypeAndID(ctx context.Context, modName string, id int64) (*models.CourseModule, error) {
	cm, err := r.GetModuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cm.ModName != modName {
		return nil, pgx.ErrNoRows
	}
	return cm, nil
}

// ModTypeInstalled reports whether any module of the given type tag is
// registered, so the activity chooser only offers types that exist.
func (r *CourseRepo) ModTypeInstalled(ctx context.Context, modName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM module_types WHERE name = $1 AND enabled)`, modName).
		Scan(&exists)
	return exists, err
}

// CreateModule appends a module at the end of its section.
func (r *CourseRepo) CreateModule(ctx context.Context, cm *models.CourseModule) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO course_modules (course_id, section_id, mod_name, instance, name, position, visible, completion)
		VALUES ($1, $2, $3, $4, $5,
			COALESCE((SELECT MAX(position) + 1 FROM course_modules WHERE section_id = $2), 1),
			$6, $7)
		RETURNING id, position
	`, cm.CourseID, cm.SectionID, cm.ModName, cm.Instance, cm.Name, cm.Visible, cm.Completion).
		Scan(&cm.ID, &cm.Position)
}

func (r *CourseRepo) UpdateModule(ctx context.Context, cm *models.CourseModule) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE course_modules SET name = $2, visible = $3, completion = $4
		WHERE id = $1
	`, cm.ID, cm.Name, cm.Visible, cm.Completion)
	return err
}

func (r *CourseRepo) DeleteModule(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM course_modules WHERE id = $1`, id)
	return err
}

// GetSectionByNumber resolves a section row by its display number.
func (r *CourseRepo) GetSectionByNumber(ctx context.Context, courseID int64, number int) (*models.Section, error) {
	s := &models.Section{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, number, name, summary, visible
		FROM sections WHERE course_id = $1 AND number = $2
	`, courseID, number).Scan(&s.ID, &s.CourseID, &s.Number, &s.Name, &s.Summary, &s.Visible)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetFormatOptions reads the key-value option rows for a course and
// overlays them on the defaults. Unknown keys are ignored; bad numeric
// values fall back to their default.
func (r *CourseRepo) GetFormatOptions(ctx context.Context, courseID int64, format string) (models.FormatOptions, error) {
	opts := models.DefaultFormatOptions()

	rows, err := r.pool.Query(ctx, `
		SELECT name, value FROM course_format_options
		WHERE course_id = $1 AND format = $2 AND section_id = 0
	`, courseID, format)
	if err != nil {
		return opts, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return opts, err
		}
		applyFormatOption(&opts, name, value)
	}
	return opts, rows.Err()
}

func (r *CourseRepo) SetFormatOption(ctx context.Context, courseID int64, format, name, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO course_format_options (course_id, format, section_id, name, value)
		VALUES ($1, $2, 0, $3, $4)
		ON CONFLICT (course_id, format, section_id, name) DO UPDATE SET value = EXCLUDED.value
	`, courseID, format, name, value)
	return err
}

func applyFormatOption(opts *models.FormatOptions, name, value string) {
	switch name {
	case models.OptHiddenSections:
		if n, err := strconv.Atoi(value); err == nil && (n == 0 || n == 1) {
			opts.HiddenSections = n
		}
	case models.OptShowCourseDescription:
		opts.ShowCourseDescription = value == "1" || value == "true"
	case models.OptHeaderImageItemID:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			opts.HeaderImageItemID = n
		}
	case models.OptHeaderBgPosition:
		switch value {
		case "bottom", "center", "top", "left", "right":
			opts.HeaderBgPosition = value
		}
	case models.OptHeaderBgSize:
		switch value {
		case "cover", "contain", "auto":
			opts.HeaderBgSize = value
		}
	case models.OptHeaderOverlayOpacity:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 100 {
			// Out-of-range opacity keeps the opaque default.
			return
		}
		opts.HeaderOverlayOpacity = n
	}
}

// IsNotFound reports whether an error is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
