package services

import (
	"fmt"
	"math"
	"strings"

	"learnpath-backend/internal/models"
)

// Display names for well-known module types; first value singular,
// second plural. Unknown types fall back to a title-cased tag.
var modDisplayNames = map[string][2]string{
	"videoactivity": {"Video Activity", "Video Activities"},
	"quiz":          {"Quiz", "Quizzes"},
	"page":          {"Page", "Pages"},
	"assign":        {"Assignment", "Assignments"},
	"forum":         {"Forum", "Forums"},
	"resource":      {"File", "Files"},
	"url":           {"URL", "URLs"},
	"book":          {"Book", "Books"},
	"folder":        {"Folder", "Folders"},
}

func modDisplayName(modName string, plural bool) string {
	if names, ok := modDisplayNames[modName]; ok {
		if plural {
			return names[1]
		}
		return names[0]
	}
	name := strings.ToUpper(modName[:1]) + modName[1:]
	if plural {
		return name + "s"
	}
	return name
}

// SectionProgress is what the section header shows: the activity count
// line plus, when anything is tracked, the status label and percentage.
type SectionProgress struct {
	ActivityInfo   []string `json:"activity_info"`
	HasProgress    bool     `json:"has_progress"`
	Percentage     int      `json:"percentage"`
	ShowPercentage bool     `json:"show_percentage"`
	StatusText     string   `json:"status_text"`
	StatusURL      string   `json:"status_url"`
	Completed      bool     `json:"completed"`
}

// ProgressSummariser computes per-section and whole-course completion
// statistics. It is pure: completion states are passed in, keyed by
// course module id.
type ProgressSummariser struct{}

func NewProgressSummariser() *ProgressSummariser {
	return &ProgressSummariser{}
}

type typeCount struct {
	name  string
	count int
}

// Summarise walks one section's modules. Labels and modules the user
// cannot see never count. canComplete is false for guests and anonymous
// visitors, which suppresses the progress line entirely.
func (p *ProgressSummariser) Summarise(section *models.SectionInfo, states map[int64]models.CompletionState, canComplete bool, sectionURL string) SectionProgress {
	out := SectionProgress{}
	if section == nil || len(section.Modules) == 0 {
		return out
	}

	var order []string
	counts := make(map[string]*typeCount)
	total := 0
	complete := 0

	for _, cm := range section.Modules {
		if cm.ModName == "label" {
			// Labels are decoration, not activities.
			continue
		}
		if !cm.UserVisible {
			continue
		}

		if tc, ok := counts[cm.ModName]; ok {
			tc.count++
			tc.name = modDisplayName(cm.ModName, true)
		} else {
			counts[cm.ModName] = &typeCount{name: modDisplayName(cm.ModName, false), count: 1}
			order = append(order, cm.ModName)
		}

		if canComplete && cm.Completion != models.TrackingNone {
			total++
			if states[cm.ID].IsComplete() {
				complete++
			}
		}
	}

	for i, modName := range order {
		tc := counts[modName]
		entry := fmt.Sprintf("%d %s", tc.count, tc.name)
		if i == len(order)-1 {
			entry += "."
		} else {
			entry += ","
		}
		out.ActivityInfo = append(out.ActivityInfo, entry)
	}

	if total == 0 {
		return out
	}

	percentage := int(math.Round(float64(complete) / float64(total) * 100))
	out.HasProgress = true
	out.Percentage = percentage
	out.ShowPercentage = percentage != 0
	out.Completed = complete == total
	out.StatusURL = sectionURL

	remaining := total - complete
	switch {
	case percentage == 0:
		out.StatusText = "Start Activity"
	case percentage < 50:
		out.StatusText = fmt.Sprintf("%d out of %d %s completed", complete, total, pluralActivity(total))
	case percentage < 100:
		out.StatusText = fmt.Sprintf("%d %s remaining", remaining, pluralActivity(remaining))
	default:
		out.StatusText = "All activities completed"
		out.StatusURL = ""
	}

	return out
}

func pluralActivity(n int) string {
	if n == 1 {
		return "activity"
	}
	return "activities"
}

// CoursePercentage is the floor()ed whole-course completion percentage
// over every visible tracked module. Returns 0 when the course does not
// track completion or nothing is tracked.
func (p *ProgressSummariser) CoursePercentage(mi *models.ModInfo, states map[int64]models.CompletionState, canComplete bool) int {
	if mi == nil || mi.Course == nil || !mi.Course.EnableCompletion || !canComplete {
		return 0
	}

	total := 0
	complete := 0
	for _, si := range mi.Sections {
		for _, cm := range si.Modules {
			if cm.ModName == "label" || !cm.UserVisible || cm.Completion == models.TrackingNone {
				continue
			}
			total++
			if states[cm.ID].IsComplete() {
				complete++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(complete) / float64(total) * 100))
}
