package services

import (
	"context"
	"fmt"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

// ModInfoService assembles the indexed per-request view of a course.
type ModInfoService struct {
	courses *repository.CourseRepo
}

func NewModInfoService(courses *repository.CourseRepo) *ModInfoService {
	return &ModInfoService{courses: courses}
}

func (s *ModInfoService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.GetCourse(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Message: "course not found"}
		}
		return nil, fmt.Errorf("failed to load course %d: %w", id, err)
	}
	return course, nil
}

// Build loads sections and modules and computes per-user visibility.
// Section 0 is created on first view if the course predates it.
func (s *ModInfoService) Build(ctx context.Context, course *models.Course, canViewHidden bool) (*models.ModInfo, error) {
	if err := s.courses.EnsureGeneralSection(ctx, course.ID); err != nil {
		return nil, fmt.Errorf("failed to ensure general section: %w", err)
	}

	sections, err := s.courses.ListSections(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	modules, err := s.courses.ListModules(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	mi := &models.ModInfo{
		Course: course,
		CMs:    make(map[int64]*models.CourseModule, len(modules)),
	}

	byNumber := make(map[int]*models.SectionInfo, len(sections))
	for _, sec := range sections {
		si := &models.SectionInfo{Section: sec}
		byNumber[sec.Number] = si
		mi.Sections = append(mi.Sections, si)
	}

	for _, cm := range modules {
		cm.UserVisible = cm.Visible || canViewHidden
		if cm.AvailableInfo != "" && !canViewHidden {
			cm.UserVisible = false
		}
		mi.CMs[cm.ID] = cm
		if si, ok := byNumber[cm.SectionNum]; ok {
			si.Modules = append(si.Modules, cm)
		}
	}

	return mi, nil
}

// ResolveModule applies the canonical-link rule: the id must exist, its
// type must match, it must belong to the course and be viewable by the
// requesting user. Any miss returns nil so the caller can degrade to
// the plain course page.
func (s *ModInfoService) ResolveModule(mi *models.ModInfo, modType string, modID int64) *models.CourseModule {
	cm, ok := mi.CMs[modID]
	if !ok {
		return nil
	}
	if cm.ModName != modType || cm.CourseID != mi.Course.ID {
		return nil
	}
	if !cm.UserVisible && cm.AvailableInfo == "" {
		return nil
	}
	return cm
}

// OrderedViewable flattens the course into document order keeping only
// modules a learner can open; prev/next navigation walks this list.
func (s *ModInfoService) OrderedViewable(mi *models.ModInfo) []*models.CourseModule {
	var out []*models.CourseModule
	for _, si := range mi.Sections {
		for _, cm := range si.Modules {
			if cm.UserVisible && cm.HasView() {
				out = append(out, cm)
			}
		}
	}
	return out
}
