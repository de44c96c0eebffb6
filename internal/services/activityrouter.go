package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

// ViewUser is the request identity the page builders care about.
type ViewUser struct {
	ID            uuid.UUID
	CanComplete   bool // logged in and not a guest
	CanViewHidden bool // editors see hidden and restricted modules
	IsEditing     bool
}

// ActivityRouter decides which of the two course-view templates a
// request gets and assembles the template context for the embedded
// activity panel.
type ActivityRouter struct {
	modinfo    *ModInfoService
	completion *CompletionService
	progress   *ProgressSummariser
	courses    *repository.CourseRepo
	videos     *repository.VideoActivityRepo
	files      *repository.FileRepo
	store      *FileStore
	transcript *TranscriptExtractor
	baseURL    string
}

func NewActivityRouter(
	modinfo *ModInfoService,
	completion *CompletionService,
	progress *ProgressSummariser,
	courses *repository.CourseRepo,
	videos *repository.VideoActivityRepo,
	files *repository.FileRepo,
	store *FileStore,
	transcript *TranscriptExtractor,
	baseURL string,
) *ActivityRouter {
	return &ActivityRouter{
		modinfo:    modinfo,
		completion: completion,
		progress:   progress,
		courses:    courses,
		videos:     videos,
		files:      files,
		store:      store,
		transcript: transcript,
		baseURL:    baseURL,
	}
}

// Decide applies the selection rule. A (modtype, modid) pair that
// parses and resolves wins; a positive section parameter restricts the
// normal page; anything else renders the full course. Bad parameters
// never error, they degrade.
func (r *ActivityRouter) Decide(mi *models.ModInfo, sectionParam, modType, modIDRaw string) RouteDecision {
	if modType != "" || modIDRaw != "" {
		if name, id, ok := ParseModParams(modType, modIDRaw); ok {
			if cm := r.modinfo.ResolveModule(mi, name, id); cm != nil {
				return RouteDecision{Template: TemplateActivityView, Module: cm}
			}
		}
	}
	if n, err := strconv.Atoi(sectionParam); err == nil && n > 0 {
		return RouteDecision{Template: TemplateCourseContent, SectionNum: n}
	}
	return RouteDecision{Template: TemplateCourseContent}
}

// BuildActivityView assembles the activity panel context. The native
// video activity gets media, resources and transcript; every other
// module type gets the generic title-and-link variant.
func (r *ActivityRouter) BuildActivityView(ctx context.Context, mi *models.ModInfo, cm *models.CourseModule, user ViewUser) (*ActivityViewContext, error) {
	states, err := r.completion.StatesForCourse(ctx, mi.Course.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion states: %w", err)
	}

	out := &ActivityViewContext{
		Title:         cm.Name,
		IsVideoFormat: mi.Course.Format == "videopath",
		IsEditing:     user.IsEditing,
		IsQuiz:        cm.ModName == "quiz",
	}

	if si := mi.GetSection(cm.SectionNum); si != nil {
		out.SectionName = strings.ToUpper(si.Section.DisplayName())

		sp := r.progress.Summarise(si, states, user.CanComplete, SectionURL(r.baseURL, mi.Course.ID, cm.SectionNum))
		out.SectionPercentage = sp.Percentage
		out.HasProgressInfo = sp.HasProgress
	}

	out.Completion = CompletionButton{
		Tracked:   r.completion.IsTracked(mi.Course, cm),
		Manual:    cm.Completion == models.TrackingManual,
		Completed: states[cm.ID].IsComplete(),
		ModuleID:  cm.ID,
	}

	out.PrevURL, out.NextURL = r.prevNext(mi, cm)
	out.CourseProgress = r.progress.CoursePercentage(mi, states, user.CanComplete)

	out.CourseName = mi.Course.FullName
	out.CourseURL = CourseURL(r.baseURL, mi.Course.ID)
	if category, err := r.courses.GetCategory(ctx, mi.Course.CategoryID); err == nil {
		out.CategoryName = category.Name
		out.CategoryURL = CategoryURL(r.baseURL, category.ID)
	}

	r.applyAvailability(out, cm, user)

	if cm.ModName == "videoactivity" {
		if err := r.applyVideoActivity(ctx, out, cm); err != nil {
			return nil, err
		}
	} else {
		out.ActivityURL = cm.ViewURL(r.baseURL)
		out.ShowTabs = false
	}

	return out, nil
}

func (r *ActivityRouter) applyVideoActivity(ctx context.Context, out *ActivityViewContext, cm *models.CourseModule) error {
	activity, err := r.videos.GetByID(ctx, cm.Instance)
	if err != nil {
		if repository.IsNotFound(err) {
			return &NotFoundError{Message: "video activity instance not found"}
		}
		return fmt.Errorf("failed to load video activity %d: %w", cm.Instance, err)
	}

	out.IsVideoActivity = true
	out.Intro = activity.Intro
	out.SourcePath = activity.SourcePath
	out.IsEmbedded = IsEmbedded(activity.SourceType, activity.SourcePath)
	out.HasResources = activity.HasResources
	out.HasTranscript = activity.HasTranscript

	// Enumeration failures hide the tab rather than failing the page.
	if files, err := r.files.ListAreaFiles(ctx, cm.ID, models.ComponentVideoActivity, models.AreaResources, 0); err == nil {
		for _, f := range files {
			out.Resources = append(out.Resources, r.resourceFile(f))
		}
	}
	if len(out.Resources) == 0 {
		out.HasResources = false
	}

	if files, err := r.files.ListAreaFiles(ctx, cm.ID, models.ComponentVideoActivity, models.AreaTranscript, 0); err == nil && len(files) > 0 {
		f := files[0]
		rf := r.resourceFile(f)
		out.TranscriptFile = &rf
		out.TranscriptText = r.transcriptText(f)
	} else {
		out.HasTranscript = false
	}

	out.ShowTabs = out.HasResources || out.HasTranscript || out.Intro != ""
	out.MakeTranscriptActive = out.Intro == "" && !out.HasResources
	return nil
}

func (r *ActivityRouter) transcriptText(f *models.StoredFile) string {
	if r.store == nil || r.transcript == nil {
		return ""
	}
	content, err := r.store.Content(f)
	if err != nil {
		return ""
	}
	text, err := r.transcript.Extract(f.FileName, content)
	if err != nil {
		return ""
	}
	return text
}

func (r *ActivityRouter) resourceFile(f *models.StoredFile) models.ResourceFile {
	url := f.PluginFileURL(r.baseURL)
	return models.ResourceFile{
		FileName:     f.FileName,
		FileSize:     DisplaySize(f.FileSize),
		MimeType:     f.MimeType,
		Icon:         iconURL(r.baseURL, f.MimeType),
		URL:          url,
		DownloadURL:  url + "?forcedownload=1",
		TimeModified: f.TimeModified.Format("2 January 2006, 3:04 PM"),
	}
}

func (r *ActivityRouter) prevNext(mi *models.ModInfo, cm *models.CourseModule) (string, string) {
	ordered := r.modinfo.OrderedViewable(mi)
	idx := -1
	for i, c := range ordered {
		if c.ID == cm.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", ""
	}

	var prev, next string
	if idx > 0 {
		p := ordered[idx-1]
		prev = CanonicalModuleURL(r.baseURL, mi.Course.ID, p.ModName, p.ID)
	}
	if idx < len(ordered)-1 {
		n := ordered[idx+1]
		next = CanonicalModuleURL(r.baseURL, mi.Course.ID, n.ModName, n.ID)
	}
	return prev, next
}

func (r *ActivityRouter) applyAvailability(out *ActivityViewContext, cm *models.CourseModule, user ViewUser) {
	if cm.AvailableInfo == "" {
		return
	}
	if !cm.UserVisible {
		out.HasAvailability = true
		out.Availability = append(out.Availability, AvailabilityInfo{
			Text:         cm.AvailableInfo,
			IsRestricted: true,
		})
	} else if user.CanViewHidden {
		out.HasAvailability = true
		out.Availability = append(out.Availability, AvailabilityInfo{
			Text:         cm.AvailableInfo,
			IsRestricted: true,
			IsFullInfo:   true,
		})
	}
}

func iconURL(baseURL, mimeType string) string {
	icon := "unknown"
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		icon = "video"
	case strings.HasPrefix(mimeType, "audio/"):
		icon = "audio"
	case strings.HasPrefix(mimeType, "image/"):
		icon = "image"
	case mimeType == "application/pdf":
		icon = "pdf"
	case mimeType == "text/plain":
		icon = "text"
	case strings.Contains(mimeType, "zip") || strings.Contains(mimeType, "compressed"):
		icon = "archive"
	case strings.Contains(mimeType, "word") || strings.Contains(mimeType, "document"):
		icon = "document"
	case strings.Contains(mimeType, "sheet") || strings.Contains(mimeType, "excel"):
		icon = "spreadsheet"
	}
	return baseURL + "/static/icons/" + icon + ".svg"
}
