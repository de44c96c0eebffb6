package models

import (
	"strconv"
	"time"
)

type Course struct {
	ID               int64     `json:"id"`
	CategoryID       int64     `json:"category_id"`
	FullName         string    `json:"full_name"`
	ShortName        string    `json:"short_name"`
	Summary          string    `json:"summary"`
	Format           string    `json:"format"` // "videopath" | "topics" | ...
	EnableCompletion bool      `json:"enable_completion"`
	CreatedAt        time.Time `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Section 0 is the general section; content sections start at 1.
type Section struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Number   int    `json:"number"`
	Name     string `json:"name"` // empty means "use default title"
	Summary  string `json:"summary"`
	Visible  bool   `json:"visible"`
}

// DisplayName returns the section name override or the conventional default.
func (s *Section) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Number == 0 {
		return "General"
	}
	return "Section " + itoa(s.Number)
}

type CourseModule struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	SectionID   int64  `json:"section_id"`
	SectionNum  int    `json:"section_num"`
	ModName     string `json:"mod_name"` // "videoactivity" | "quiz" | "page" | "label" | ...
	Instance    int64  `json:"instance"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	Visible     bool   `json:"visible"`
	UserVisible bool   `json:"user_visible"`
	Completion  CompletionTracking `json:"completion"`
	// Availability restriction text shown when the module cannot be opened.
	AvailableInfo string `json:"available_info,omitempty"`
}

// HasView reports whether the module has its own view page. Labels are
// rendered inline and never link anywhere.
func (cm *CourseModule) HasView() bool {
	return cm.ModName != "label"
}

// ViewURL is the module's own page. Empty for modules without a view.
func (cm *CourseModule) ViewURL(baseURL string) string {
	if !cm.HasView() {
		return ""
	}
	return baseURL + "/mod/" + cm.ModName + "/view.php?id=" + itoa64(cm.ID)
}

// ModInfo is the per-request indexed view of a course's structure:
// sections in display order, each with its modules in position order,
// plus a flat id lookup.
type ModInfo struct {
	Course   *Course
	Sections []*SectionInfo
	CMs      map[int64]*CourseModule
}

type SectionInfo struct {
	Section *Section
	Modules []*CourseModule
}

// GetSection returns the section info for a section number, or nil.
func (mi *ModInfo) GetSection(number int) *SectionInfo {
	for _, si := range mi.Sections {
		if si.Section.Number == number {
			return si
		}
	}
	return nil
}

// hiddensections values: collapsed sections are either shown greyed out
// or left out of the page entirely.
const (
	HiddenSectionsCollapsed = 0
	HiddenSectionsInvisible = 1
)

// Format option keys recognised by the video-path course format.
const (
	OptHiddenSections        = "hiddensections"
	OptShowCourseDescription = "showcoursedescription"
	OptHeaderImageItemID     = "headerimageitemid"
	OptHeaderBgPosition      = "headerbgposition"
	OptHeaderBgSize          = "headerbgsize"
	OptHeaderOverlayOpacity  = "headeroverlayopacity"
)

type FormatOptions struct {
	HiddenSections        int    `json:"hiddensections" validate:"oneof=0 1"`
	ShowCourseDescription bool   `json:"showcoursedescription"`
	HeaderImageItemID     int64  `json:"headerimageitemid"`
	HeaderBgPosition      string `json:"headerbgposition" validate:"oneof=bottom center top left right"`
	HeaderBgSize          string `json:"headerbgsize" validate:"oneof=cover contain auto"`
	HeaderOverlayOpacity  int    `json:"headeroverlayopacity" validate:"min=0,max=100"`
}

func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		HiddenSections:        0,
		ShowCourseDescription: true,
		HeaderBgPosition:      "center",
		HeaderBgSize:          "cover",
		HeaderOverlayOpacity:  100,
	}
}

// OverlayOpacity converts the stored 0-100 value into the 0.0-1.0 factor
// used by the header template. Out-of-range values fall back to opaque.
func (o FormatOptions) OverlayOpacity() float64 {
	if o.HeaderOverlayOpacity < 0 || o.HeaderOverlayOpacity > 100 {
		return 1.0
	}
	return float64(o.HeaderOverlayOpacity) / 100
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
