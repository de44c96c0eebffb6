package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
	"learnpath-backend/internal/services"
)

// Pool consumes the background queues: view events become view_log
// rows, transcript jobs fetch YouTube captions.
type Pool struct {
	redis       *redis.Client
	viewLog     *repository.ViewLogRepo
	youtube     *services.YouTubeService
	activities  *services.VideoActivityService
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	viewLog *repository.ViewLogRepo,
	youtube *services.YouTubeService,
	activities *services.VideoActivityService,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		viewLog:     viewLog,
		youtube:     youtube,
		activities:  activities,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		services.QueueViewEvents,
		services.QueueTranscriptFetch,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		queue, payload := result[0], result[1]
		switch queue {
		case services.QueueViewEvents:
			p.handleViewEvent(ctx, id, payload)
		case services.QueueTranscriptFetch:
			p.handleTranscriptFetch(ctx, id, payload)
		}
	}
}

func (p *Pool) handleViewEvent(ctx context.Context, id int, payload string) {
	var event models.ViewEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("Worker %d: failed to parse view event: %v", id, err)
		return
	}

	entry := &models.ViewLogEntry{
		UserID:         event.UserID,
		CourseID:       event.CourseID,
		CourseModuleID: event.CourseModuleID,
		Action:         models.LogActionViewed,
		Target:         models.LogTargetModule,
		Origin:         event.Origin,
		CreatedAt:      event.OccurredAt,
	}
	if err := p.viewLog.Insert(ctx, entry); err != nil {
		log.Printf("Worker %d: failed to insert view log entry: %v", id, err)
	}
}

func (p *Pool) handleTranscriptFetch(ctx context.Context, id int, payload string) {
	var job services.TranscriptJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		log.Printf("Worker %d: failed to parse transcript job: %v", id, err)
		return
	}

	text, err := p.youtube.GetTranscript(job.VideoID)
	if err != nil {
		// Captions are best-effort; the activity just keeps no transcript.
		log.Printf("Worker %d: no captions for video %s: %v", id, job.VideoID, err)
		return
	}

	if err := p.activities.SaveFetchedTranscript(ctx, job.ActivityID, job.CourseModuleID, text); err != nil {
		log.Printf("Worker %d: failed to save transcript for activity %d: %v", id, job.ActivityID, err)
		return
	}
	log.Printf("Worker %d: attached fetched transcript to activity %d", id, job.ActivityID)
}
