package services

import (
	"reflect"
	"testing"

	"learnpath-backend/internal/models"
)

func makeSection(modules ...*models.CourseModule) *models.SectionInfo {
	return &models.SectionInfo{
		Section: &models.Section{ID: 10, CourseID: 1, Number: 1, Visible: true},
		Modules: modules,
	}
}

func tracked(id int64, modName string) *models.CourseModule {
	return &models.CourseModule{
		ID:          id,
		CourseID:    1,
		ModName:     modName,
		Visible:     true,
		UserVisible: true,
		Completion:  models.TrackingManual,
	}
}

func TestSummariseActivityInfo(t *testing.T) {
	section := makeSection(
		tracked(1, "videoactivity"),
		tracked(2, "videoactivity"),
		tracked(3, "quiz"),
		&models.CourseModule{ID: 4, ModName: "label", Visible: true, UserVisible: true},
		&models.CourseModule{ID: 5, ModName: "page", Visible: false, UserVisible: false},
	)

	p := NewProgressSummariser()
	got := p.Summarise(section, nil, true, "/section")

	want := []string{"2 Video Activities,", "1 Quiz."}
	if !reflect.DeepEqual(got.ActivityInfo, want) {
		t.Errorf("Expected activity info %v, got %v", want, got.ActivityInfo)
	}
}

func TestSummariseStatusBands(t *testing.T) {
	tests := []struct {
		name           string
		completed      []int64
		statusText     string
		percentage     int
		showPercentage bool
		wantCompleted  bool
		wantURL        string
	}{
		{"nothing done", nil, "Start Activity", 0, false, false, "/section"},
		{"under half", []int64{1}, "1 out of 4 activities completed", 25, true, false, "/section"},
		{"over half", []int64{1, 2, 3}, "1 activity remaining", 75, true, false, "/section"},
		{"all done", []int64{1, 2, 3, 4}, "All activities completed", 100, true, true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			section := makeSection(
				tracked(1, "videoactivity"),
				tracked(2, "videoactivity"),
				tracked(3, "quiz"),
				tracked(4, "page"),
			)
			states := make(map[int64]models.CompletionState)
			for _, id := range tc.completed {
				states[id] = models.CompletionComplete
			}

			got := NewProgressSummariser().Summarise(section, states, true, "/section")

			if !got.HasProgress {
				t.Fatal("Expected HasProgress to be true")
			}
			if got.StatusText != tc.statusText {
				t.Errorf("Expected status %q, got %q", tc.statusText, got.StatusText)
			}
			if got.Percentage != tc.percentage {
				t.Errorf("Expected percentage %d, got %d", tc.percentage, got.Percentage)
			}
			if got.ShowPercentage != tc.showPercentage {
				t.Errorf("Expected ShowPercentage %v, got %v", tc.showPercentage, got.ShowPercentage)
			}
			if got.Completed != tc.wantCompleted {
				t.Errorf("Expected Completed %v, got %v", tc.wantCompleted, got.Completed)
			}
			if got.StatusURL != tc.wantURL {
				t.Errorf("Expected status URL %q, got %q", tc.wantURL, got.StatusURL)
			}
		})
	}
}

func TestSummariseRounding(t *testing.T) {
	// 1 of 3 complete rounds to 33, 2 of 3 rounds to 67.
	section := makeSection(tracked(1, "quiz"), tracked(2, "quiz"), tracked(3, "quiz"))
	p := NewProgressSummariser()

	got := p.Summarise(section, map[int64]models.CompletionState{1: models.CompletionComplete}, true, "")
	if got.Percentage != 33 {
		t.Errorf("Expected 33, got %d", got.Percentage)
	}

	got = p.Summarise(section, map[int64]models.CompletionState{
		1: models.CompletionComplete,
		2: models.CompletionCompletePass,
	}, true, "")
	if got.Percentage != 67 {
		t.Errorf("Expected 67, got %d", got.Percentage)
	}
}

func TestSummariseCannotComplete(t *testing.T) {
	section := makeSection(tracked(1, "videoactivity"))
	got := NewProgressSummariser().Summarise(section, nil, false, "/section")

	if got.HasProgress {
		t.Error("Expected no progress line for users who cannot complete")
	}
	if len(got.ActivityInfo) != 1 {
		t.Errorf("Expected activity info to survive, got %v", got.ActivityInfo)
	}
}

func TestSummariseUntrackedOnly(t *testing.T) {
	cm := tracked(1, "page")
	cm.Completion = models.TrackingNone
	got := NewProgressSummariser().Summarise(makeSection(cm), nil, true, "")

	if got.HasProgress {
		t.Error("Expected no progress line when nothing is tracked")
	}
}

func TestSummariseEmptySection(t *testing.T) {
	got := NewProgressSummariser().Summarise(makeSection(), nil, true, "")
	if got.HasProgress || len(got.ActivityInfo) != 0 {
		t.Errorf("Expected empty summary, got %+v", got)
	}
}

func TestModDisplayName(t *testing.T) {
	tests := []struct {
		modName  string
		plural   bool
		expected string
	}{
		{"videoactivity", false, "Video Activity"},
		{"videoactivity", true, "Video Activities"},
		{"quiz", true, "Quizzes"},
		{"workshop", false, "Workshop"},
		{"workshop", true, "Workshops"},
	}

	for _, tc := range tests {
		if got := modDisplayName(tc.modName, tc.plural); got != tc.expected {
			t.Errorf("modDisplayName(%q, %v): expected %q, got %q", tc.modName, tc.plural, tc.expected, got)
		}
	}
}

func TestCoursePercentage(t *testing.T) {
	course := &models.Course{ID: 1, Format: "videopath", EnableCompletion: true}
	mi := &models.ModInfo{
		Course: course,
		Sections: []*models.SectionInfo{
			makeSection(tracked(1, "videoactivity"), tracked(2, "quiz")),
			makeSection(tracked(3, "page")),
		},
	}
	states := map[int64]models.CompletionState{
		1: models.CompletionComplete,
		2: models.CompletionComplete,
	}

	p := NewProgressSummariser()

	// 2 of 3 floors to 66.
	if got := p.CoursePercentage(mi, states, true); got != 66 {
		t.Errorf("Expected 66, got %d", got)
	}

	if got := p.CoursePercentage(mi, states, false); got != 0 {
		t.Errorf("Expected 0 for users who cannot complete, got %d", got)
	}

	course.EnableCompletion = false
	if got := p.CoursePercentage(mi, states, true); got != 0 {
		t.Errorf("Expected 0 when completion is disabled, got %d", got)
	}
}
