package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

// CompletionService owns per-user module completion: reads for the
// progress summariser, the manual toggle, and view-tracking.
type CompletionService struct {
	completion *repository.CompletionRepo
	redis      *redis.Client
	progress   *ProgressSummariser
}

func NewCompletionService(completion *repository.CompletionRepo, redisClient *redis.Client, progress *ProgressSummariser) *CompletionService {
	return &CompletionService{completion: completion, redis: redisClient, progress: progress}
}

// IsTracked reports whether a module participates in completion at all.
func (s *CompletionService) IsTracked(course *models.Course, cm *models.CourseModule) bool {
	return course.EnableCompletion && cm.Completion != models.TrackingNone
}

func (s *CompletionService) GetData(ctx context.Context, cmID int64, userID uuid.UUID) (*models.CompletionData, error) {
	return s.completion.Get(ctx, cmID, userID)
}

// StatesForCourse loads every completion state of one user for a course
// in a single query. Anonymous and guest users get an empty map.
func (s *CompletionService) StatesForCourse(ctx context.Context, courseID int64, userID uuid.UUID) (map[int64]models.CompletionState, error) {
	if userID == uuid.Nil {
		return map[int64]models.CompletionState{}, nil
	}
	return s.completion.MapForCourse(ctx, courseID, userID)
}

// Toggle flips a manually-tracked module and broadcasts the resulting
// course percentage so open course pages update their indicators.
func (s *CompletionService) Toggle(ctx context.Context, mi *models.ModInfo, cm *models.CourseModule, userID uuid.UUID, completed bool) (int, error) {
	if !s.IsTracked(mi.Course, cm) {
		return 0, &ValidationError{Message: "completion is not tracked for this activity"}
	}

	state := models.CompletionIncomplete
	if completed {
		state = models.CompletionComplete
	}
	if err := s.completion.SetState(ctx, cm.ID, userID, state); err != nil {
		return 0, fmt.Errorf("failed to set completion state: %w", err)
	}

	states, err := s.StatesForCourse(ctx, mi.Course.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to reload completion states: %w", err)
	}
	percentage := s.progress.CoursePercentage(mi, states, true)

	s.publishUpdate(ctx, models.ProgressUpdate{
		CourseID:         mi.Course.ID,
		UserID:           userID,
		CourseModuleID:   cm.ID,
		SectionNumber:    cm.SectionNum,
		CoursePercentage: percentage,
	})

	return percentage, nil
}

// MarkViewed records a view for completion purposes; modules tracked
// automatically complete on first view.
func (s *CompletionService) MarkViewed(ctx context.Context, mi *models.ModInfo, cm *models.CourseModule, userID uuid.UUID) error {
	if userID == uuid.Nil || !s.IsTracked(mi.Course, cm) {
		return nil
	}
	if err := s.completion.MarkViewed(ctx, cm.ID, userID); err != nil {
		return err
	}
	if cm.Completion == models.TrackingAutomatic {
		data, err := s.completion.Get(ctx, cm.ID, userID)
		if err != nil {
			return err
		}
		if !data.State.IsComplete() {
			return s.completion.SetState(ctx, cm.ID, userID, models.CompletionComplete)
		}
	}
	return nil
}

func (s *CompletionService) publishUpdate(ctx context.Context, update models.ProgressUpdate) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(models.WSMessage{Type: "progress_update", Payload: update})
	if err != nil {
		return
	}
	channel := fmt.Sprintf("course_updates:%d", update.CourseID)
	if err := s.redis.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("Failed to publish progress update for course %d: %v", update.CourseID, err)
	}
}
