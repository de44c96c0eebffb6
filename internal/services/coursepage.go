package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

// CoursePageService assembles the multi-section course page and its
// banner.
type CoursePageService struct {
	modinfo    *ModInfoService
	completion *CompletionService
	progress   *ProgressSummariser
	resume     *ResumeSelector
	courses    *repository.CourseRepo
	files      *repository.FileRepo
	baseURL    string
	validate   *validator.Validate
}

func NewCoursePageService(
	modinfo *ModInfoService,
	completion *CompletionService,
	progress *ProgressSummariser,
	resume *ResumeSelector,
	courses *repository.CourseRepo,
	files *repository.FileRepo,
	baseURL string,
) *CoursePageService {
	return &CoursePageService{
		modinfo:    modinfo,
		completion: completion,
		progress:   progress,
		resume:     resume,
		courses:    courses,
		files:      files,
		baseURL:    baseURL,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SaveFormatOptions validates and persists the header settings for a
// course. Options are stored per (course, format) so switching formats
// keeps each one's configuration.
func (s *CoursePageService) SaveFormatOptions(ctx context.Context, courseID int64, format string, opts models.FormatOptions) error {
	if err := s.validate.Struct(opts); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fmt.Sprintf("failed %s validation", fe.Tag())
			}
		}
		return &ValidationError{Message: "Validation error", Fields: fields}
	}

	values := map[string]string{
		models.OptHiddenSections:        strconv.Itoa(opts.HiddenSections),
		models.OptShowCourseDescription: strconv.FormatBool(opts.ShowCourseDescription),
		models.OptHeaderImageItemID:     strconv.FormatInt(opts.HeaderImageItemID, 10),
		models.OptHeaderBgPosition:      opts.HeaderBgPosition,
		models.OptHeaderBgSize:          opts.HeaderBgSize,
		models.OptHeaderOverlayOpacity:  strconv.Itoa(opts.HeaderOverlayOpacity),
	}
	for name, value := range values {
		if err := s.courses.SetFormatOption(ctx, courseID, format, name, value); err != nil {
			return fmt.Errorf("failed to save format option %s: %w", name, err)
		}
	}
	return nil
}

// Build assembles the course content context. sectionNum > 0 restricts
// the page to that section while keeping the full banner.
func (s *CoursePageService) Build(ctx context.Context, mi *models.ModInfo, user ViewUser, sectionNum int) (*CourseContentContext, error) {
	states, err := s.completion.StatesForCourse(ctx, mi.Course.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion states: %w", err)
	}

	opts, err := s.courses.GetFormatOptions(ctx, mi.Course.ID, mi.Course.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to load format options: %w", err)
	}

	out := &CourseContentContext{
		CourseID:              mi.Course.ID,
		Description:           mi.Course.Summary,
		ShowCourseDescription: opts.ShowCourseDescription && mi.Course.Summary != "",
		SingleSection:         sectionNum > 0,
		SectionNum:            sectionNum,
		IsEditing:             user.IsEditing,
	}

	installed, err := s.courses.ModTypeInstalled(ctx, "videoactivity")
	if err == nil {
		out.VideoActivityAvailable = installed
	}

	for _, si := range mi.Sections {
		if sectionNum > 0 && si.Section.Number != sectionNum {
			continue
		}
		if !si.Section.Visible && !user.CanViewHidden && opts.HiddenSections == models.HiddenSectionsInvisible {
			continue
		}
		out.Sections = append(out.Sections, s.sectionContext(si, states, user))
	}

	header, err := s.buildHeader(ctx, mi, opts, states, user)
	if err != nil {
		return nil, err
	}
	out.Header = *header

	return out, nil
}

func (s *CoursePageService) sectionContext(si *models.SectionInfo, states map[int64]models.CompletionState, user ViewUser) SectionContext {
	sec := SectionContext{
		ID:      si.Section.ID,
		Number:  si.Section.Number,
		Name:    si.Section.DisplayName(),
		Summary: si.Section.Summary,
		URL:     SectionURL(s.baseURL, si.Section.CourseID, si.Section.Number),
	}

	for _, cm := range si.Modules {
		if !cm.UserVisible && cm.AvailableInfo == "" && !user.CanViewHidden {
			continue
		}
		mc := ModuleContext{
			ID:            cm.ID,
			Name:          cm.Name,
			ModName:       cm.ModName,
			URL:           cm.ViewURL(s.baseURL),
			IsLabel:       cm.ModName == "label",
			Tracked:       cm.Completion != models.TrackingNone,
			Completed:     states[cm.ID].IsComplete(),
			AvailableInfo: cm.AvailableInfo,
		}
		if cm.HasView() {
			mc.CanonicalURL = CanonicalModuleURL(s.baseURL, cm.CourseID, cm.ModName, cm.ID)
		}
		sec.Modules = append(sec.Modules, mc)
	}

	sec.Progress = s.progress.Summarise(si, states, user.CanComplete, sec.URL)
	return sec
}

func (s *CoursePageService) buildHeader(ctx context.Context, mi *models.ModInfo, opts models.FormatOptions, states map[int64]models.CompletionState, user ViewUser) (*HeaderContext, error) {
	header := &HeaderContext{
		CourseFullName:    mi.Course.FullName,
		BgPosition:        opts.HeaderBgPosition,
		BgSize:            opts.HeaderBgSize,
		OverlayOpacity:    opts.OverlayOpacity(),
		CompletionEnabled: mi.Course.EnableCompletion && user.CanComplete,
	}

	if category, err := s.courses.GetCategory(ctx, mi.Course.CategoryID); err == nil {
		header.CategoryName = category.Name
	}

	if opts.HeaderImageItemID > 0 {
		files, err := s.files.ListAreaFiles(ctx, mi.Course.ID, models.ComponentCourseFormat, models.AreaHeaderImage, opts.HeaderImageItemID)
		if err == nil && len(files) > 0 {
			header.HeaderImageURL = files[0].PluginFileURL(s.baseURL)
		}
	}

	header.Percentage = s.progress.CoursePercentage(mi, states, user.CanComplete)

	// The CTA disappears once everything is done.
	if header.Percentage < 100 {
		target, err := s.resume.Pick(ctx, mi, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to pick resume target: %w", err)
		}
		switch target.Kind {
		case ResumeKindResume:
			header.ResumeURL = target.URL
			header.CTAKind = string(ResumeKindResume)
		case ResumeKindStart:
			header.StartURL = target.URL
			header.CTAKind = string(ResumeKindStart)
		}
	}

	return header, nil
}
