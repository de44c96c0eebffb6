package models

import (
	"time"

	"github.com/google/uuid"
)

// CompletionTracking is the per-module tracking mode.
type CompletionTracking int

const (
	TrackingNone CompletionTracking = iota
	TrackingManual
	TrackingAutomatic
)

// CompletionState is the per-user per-module progress state.
type CompletionState int

const (
	CompletionIncomplete CompletionState = iota
	CompletionComplete
	CompletionCompletePass
	CompletionCompleteFail
)

// IsComplete reports whether the state counts as done for progress
// purposes. Failed completions do not count.
func (s CompletionState) IsComplete() bool {
	return s == CompletionComplete || s == CompletionCompletePass
}

type CompletionData struct {
	CourseModuleID int64           `json:"course_module_id"`
	UserID         uuid.UUID       `json:"user_id"`
	State          CompletionState `json:"state"`
	ViewedAt       *time.Time      `json:"viewed_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ToggleCompletionRequest struct {
	CourseModuleID int64 `json:"course_module_id" validate:"required,gt=0"`
	Completed      bool  `json:"completed"`
}

// ProgressUpdate is broadcast on a course channel when a learner's
// completion changes, so open course pages can refresh their indicators.
type ProgressUpdate struct {
	CourseID         int64     `json:"course_id"`
	UserID           uuid.UUID `json:"user_id"`
	CourseModuleID   int64     `json:"course_module_id"`
	SectionNumber    int       `json:"section_number"`
	CoursePercentage int       `json:"course_percentage"`
}
