package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/models"
)

// Queue names consumed by the worker pool.
const (
	QueueViewEvents      = "queue:view-events"
	QueueTranscriptFetch = "queue:transcript-fetch"
)

// TranscriptJob asks the worker to fetch published captions for an
// embedded YouTube video and attach them as the activity transcript.
type TranscriptJob struct {
	ActivityID     int64  `json:"activity_id"`
	CourseModuleID int64  `json:"course_module_id"`
	VideoID        string `json:"video_id"`
}

// AccessLog records module views asynchronously: handlers enqueue, the
// worker pool writes. Losing an event on Redis failure is acceptable;
// blocking a page view on a log insert is not.
type AccessLog struct {
	redis *redis.Client
}

func NewAccessLog(redisClient *redis.Client) *AccessLog {
	return &AccessLog{redis: redisClient}
}

// RecordView enqueues a module view. Anonymous views are not recorded;
// the resume selector only cares about identified learners.
func (l *AccessLog) RecordView(ctx context.Context, userID uuid.UUID, courseID, cmID int64) {
	if l.redis == nil || userID == uuid.Nil {
		return
	}
	event := models.ViewEvent{
		UserID:         userID,
		CourseID:       courseID,
		CourseModuleID: cmID,
		Origin:         models.LogOriginWeb,
		OccurredAt:     time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := l.redis.RPush(ctx, QueueViewEvents, payload).Err(); err != nil {
		log.Printf("Failed to enqueue view event for cm %d: %v", cmID, err)
	}
}

// EnqueueTranscriptFetch schedules a caption download for an activity.
func (l *AccessLog) EnqueueTranscriptFetch(ctx context.Context, job TranscriptJob) error {
	if l.redis == nil {
		return fmt.Errorf("redis is not configured")
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return l.redis.RPush(ctx, QueueTranscriptFetch, payload).Err()
}
