package services

import (
	"learnpath-backend/internal/models"
)

// Template names the course view chooses between.
const (
	TemplateCourseContent = "course_content"
	TemplateActivityView  = "activity_view"
)

// RouteDecision is the outcome of inspecting a course-view request.
type RouteDecision struct {
	Template   string
	Module     *models.CourseModule // set when Template is activity_view
	SectionNum int                  // >0 restricts course_content to one section
}

// CompletionButton carries the completion control state for a module.
type CompletionButton struct {
	Tracked   bool  `json:"tracked"`
	Manual    bool  `json:"manual"`
	Completed bool  `json:"completed"`
	ModuleID  int64 `json:"module_id"`
}

type AvailabilityInfo struct {
	Text         string `json:"text"`
	IsRestricted bool   `json:"is_restricted"`
	IsFullInfo   bool   `json:"is_full_info"`
}

// ActivityViewContext feeds the single-activity panel embedded in the
// course shell.
type ActivityViewContext struct {
	Title       string `json:"title"`
	SectionName string `json:"section_name"` // upper-cased
	Intro       string `json:"intro"`

	// Media; only populated for the native video activity.
	IsVideoActivity bool   `json:"is_video_activity"`
	SourcePath      string `json:"source_path"`
	IsEmbedded      bool   `json:"is_embedded"`

	Resources      []models.ResourceFile `json:"resources"`
	TranscriptText string                `json:"transcript_text"`
	TranscriptFile *models.ResourceFile  `json:"transcript_file"`
	HasResources   bool                  `json:"has_resources"`
	HasTranscript  bool                  `json:"has_transcript"`

	// Tab state. The transcript tab becomes the default when there is
	// neither an overview nor any resource to show first.
	ShowTabs             bool `json:"show_tabs"`
	MakeTranscriptActive bool `json:"make_transcript_active"`

	Completion        CompletionButton `json:"completion"`
	SectionPercentage int              `json:"section_percentage"`
	HasProgressInfo   bool             `json:"has_progress_info"`

	PrevURL string `json:"prev_url"`
	NextURL string `json:"next_url"`

	// Generic (non-video) activities link out to their own page.
	ActivityURL string `json:"activity_url"`
	IsQuiz      bool   `json:"is_quiz"`

	CourseName   string `json:"course_name"`
	CourseURL    string `json:"course_url"`
	CategoryName string `json:"category_name"`
	CategoryURL  string `json:"category_url"`

	CourseProgress int  `json:"course_progress"`
	IsVideoFormat  bool `json:"is_video_format"`
	IsEditing      bool `json:"is_editing"`

	HasAvailability bool               `json:"has_availability"`
	Availability    []AvailabilityInfo `json:"availability"`

	ShowSurvey bool `json:"show_survey"`
}

// HeaderContext is the course banner: identity, progress, CTA and the
// configurable background.
type HeaderContext struct {
	CourseFullName    string  `json:"course_full_name"`
	CategoryName      string  `json:"category_name"`
	HeaderImageURL    string  `json:"header_image_url"`
	BgPosition        string  `json:"bg_position"`
	BgSize            string  `json:"bg_size"`
	OverlayOpacity    float64 `json:"overlay_opacity"`
	CompletionEnabled bool    `json:"completion_enabled"`
	Percentage        int     `json:"percentage"`

	// Resume/Start CTA; hidden once the course is complete.
	ResumeURL string `json:"resume_url,omitempty"`
	StartURL  string `json:"start_url,omitempty"`
	CTAKind   string `json:"cta_kind,omitempty"`
}

type ModuleContext struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ModName       string `json:"mod_name"`
	URL           string `json:"url"`           // module view page (rewritten client-side)
	CanonicalURL  string `json:"canonical_url"` // in-format course URL
	IsLabel       bool   `json:"is_label"`
	Completed     bool   `json:"completed"`
	Tracked       bool   `json:"tracked"`
	AvailableInfo string `json:"available_info,omitempty"`
}

type SectionContext struct {
	ID       int64           `json:"id"`
	Number   int             `json:"number"`
	Name     string          `json:"name"`
	Summary  string          `json:"summary"`
	URL      string          `json:"url"`
	Modules  []ModuleContext `json:"modules"`
	Progress SectionProgress `json:"progress"`
}

// CourseContentContext feeds the multi-section course page.
type CourseContentContext struct {
	CourseID              int64            `json:"course_id"`
	Description           string           `json:"description"`
	ShowCourseDescription bool             `json:"show_course_description"`
	Header                HeaderContext    `json:"header"`
	Sections              []SectionContext `json:"sections"`
	SingleSection         bool             `json:"single_section"`
	SectionNum            int              `json:"section_num"`

	VideoActivityAvailable bool `json:"video_activity_available"`

	LicenseNotice string `json:"license_notice,omitempty"`
	ShowSurvey    bool   `json:"show_survey"`
	IsEditing     bool   `json:"is_editing"`
}
