package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"learnpath-backend/internal/models"
)

type stubViewLog struct {
	entry *models.ViewLogEntry
	err   error
}

func (s *stubViewLog) FindLastViewed(ctx context.Context, userID uuid.UUID, courseID int64) (*models.ViewLogEntry, error) {
	return s.entry, s.err
}

func resumeModInfo() *models.ModInfo {
	label := &models.CourseModule{ID: 1, CourseID: 1, ModName: "label", Visible: true, UserVisible: true}
	hidden := &models.CourseModule{ID: 2, CourseID: 1, ModName: "quiz", Visible: false, UserVisible: false}
	first := &models.CourseModule{ID: 3, CourseID: 1, ModName: "videoactivity", Visible: true, UserVisible: true}
	second := &models.CourseModule{ID: 4, CourseID: 1, ModName: "quiz", Visible: true, UserVisible: true}

	mi := &models.ModInfo{
		Course: &models.Course{ID: 1, Format: "videopath"},
		Sections: []*models.SectionInfo{
			{
				Section: &models.Section{ID: 10, CourseID: 1, Number: 1, Visible: true},
				Modules: []*models.CourseModule{label, hidden, first, second},
			},
		},
		CMs: map[int64]*models.CourseModule{1: label, 2: hidden, 3: first, 4: second},
	}
	return mi
}

func TestResumeFromViewLog(t *testing.T) {
	userID := uuid.New()
	log := &stubViewLog{entry: &models.ViewLogEntry{UserID: userID, CourseID: 1, CourseModuleID: 4}}
	selector := NewResumeSelector(log, "http://localhost")

	got, err := selector.Pick(context.Background(), resumeModInfo(), userID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Kind != ResumeKindResume {
		t.Fatalf("Expected resume, got %q", got.Kind)
	}
	want := "http://localhost/course/view.php?id=1&modtype=quiz&modid=4"
	if got.URL != want {
		t.Errorf("Expected %q, got %q", want, got.URL)
	}
}

func TestResumeFallsBackWhenModuleDeleted(t *testing.T) {
	userID := uuid.New()
	// Logged module 99 no longer exists in the course.
	log := &stubViewLog{entry: &models.ViewLogEntry{UserID: userID, CourseID: 1, CourseModuleID: 99}}
	selector := NewResumeSelector(log, "http://localhost")

	got, err := selector.Pick(context.Background(), resumeModInfo(), userID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Kind != ResumeKindStart {
		t.Fatalf("Expected start, got %q", got.Kind)
	}
	want := "http://localhost/course/view.php?id=1&modtype=videoactivity&modid=3"
	if got.URL != want {
		t.Errorf("Expected first visible activity %q, got %q", want, got.URL)
	}
}

func TestResumeAnonymousStartsAtFirstActivity(t *testing.T) {
	log := &stubViewLog{entry: &models.ViewLogEntry{CourseModuleID: 4}}
	selector := NewResumeSelector(log, "http://localhost")

	got, err := selector.Pick(context.Background(), resumeModInfo(), uuid.Nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Kind != ResumeKindStart {
		t.Errorf("Expected start for anonymous users, got %q", got.Kind)
	}
}

func TestResumeEmptyCourse(t *testing.T) {
	mi := &models.ModInfo{
		Course:   &models.Course{ID: 1},
		Sections: nil,
		CMs:      map[int64]*models.CourseModule{},
	}
	selector := NewResumeSelector(&stubViewLog{}, "http://localhost")

	got, err := selector.Pick(context.Background(), mi, uuid.New())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Kind != ResumeKindNone {
		t.Errorf("Expected none, got %q", got.Kind)
	}
}
