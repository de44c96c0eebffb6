package models

import (
	"time"

	"github.com/google/uuid"
)

// View log actions, targets and origins. The log is append-only; resume
// selection reads the newest "viewed" course_module entry from the web.
const (
	LogActionViewed  = "viewed"
	LogTargetModule  = "course_module"
	LogOriginWeb     = "web"
	LogOriginRestore = "restore"
)

type ViewLogEntry struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CourseID       int64     `json:"course_id"`
	CourseModuleID int64     `json:"course_module_id"`
	Action         string    `json:"action"`
	Target         string    `json:"target"`
	Origin         string    `json:"origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// ViewEvent is what handlers push on the Redis queue; the worker pool
// turns events into view_log rows.
type ViewEvent struct {
	UserID         uuid.UUID `json:"user_id"`
	CourseID       int64     `json:"course_id"`
	CourseModuleID int64     `json:"course_module_id"`
	Origin         string    `json:"origin"`
	OccurredAt     time.Time `json:"occurred_at"`
}
