package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
)

// VideoActivityService owns the lifecycle of video activity instances
// and their course module rows.
type VideoActivityService struct {
	videos   *repository.VideoActivityRepo
	courses  *repository.CourseRepo
	files    *repository.FileRepo
	store    *FileStore
	jobs     *AccessLog
	validate *validator.Validate
}

func NewVideoActivityService(
	videos *repository.VideoActivityRepo,
	courses *repository.CourseRepo,
	files *repository.FileRepo,
	store *FileStore,
	jobs *AccessLog,
) *VideoActivityService {
	return &VideoActivityService{
		videos:   videos,
		courses:  courses,
		files:    files,
		store:    store,
		jobs:     jobs,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create makes a new video activity instance plus its course module row
// at the end of the requested section.
func (s *VideoActivityService) Create(ctx context.Context, req models.SaveVideoActivityRequest) (*models.CourseModule, *models.VideoActivity, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, nil, err
	}

	section, err := s.courses.GetSectionByNumber(ctx, req.CourseID, req.SectionNum)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, &NotFoundError{Message: "section not found"}
		}
		return nil, nil, fmt.Errorf("failed to load section: %w", err)
	}

	sourceType, sourcePath, err := resolveMediaSource(req)
	if err != nil {
		return nil, nil, err
	}

	activity := &models.VideoActivity{
		CourseID:     req.CourseID,
		Name:         req.Name,
		Intro:        req.Intro,
		SourceType:   sourceType,
		SourcePath:   sourcePath,
		TimeCreated:  time.Now(),
		TimeModified: time.Now(),
	}
	if err := s.videos.Create(ctx, activity); err != nil {
		return nil, nil, fmt.Errorf("failed to create video activity: %w", err)
	}

	cm := &models.CourseModule{
		CourseID:   req.CourseID,
		SectionID:  section.ID,
		SectionNum: section.Number,
		ModName:    "videoactivity",
		Instance:   activity.ID,
		Name:       req.Name,
		Visible:    true,
		Completion: models.CompletionTracking(req.Completion),
	}
	if err := s.courses.CreateModule(ctx, cm); err != nil {
		return nil, nil, fmt.Errorf("failed to create course module: %w", err)
	}

	s.maybeFetchTranscript(ctx, activity, cm.ID)

	return cm, activity, nil
}

// Update edits an existing instance. The media source can be switched
// between upload, external URL and embed code.
func (s *VideoActivityService) Update(ctx context.Context, cm *models.CourseModule, req models.SaveVideoActivityRequest) (*models.VideoActivity, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	activity, err := s.videos.GetByID(ctx, cm.Instance)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &NotFoundError{Message: "video activity instance not found"}
		}
		return nil, fmt.Errorf("failed to load video activity: %w", err)
	}

	sourceType, sourcePath, err := resolveMediaSource(req)
	if err != nil {
		return nil, err
	}

	activity.Name = req.Name
	activity.Intro = req.Intro
	activity.SourceType = sourceType
	// An upload keeps its current path until a new file arrives.
	if sourceType != models.SourceUpload || sourcePath != "" {
		activity.SourcePath = sourcePath
	}
	activity.TimeModified = time.Now()

	if err := s.videos.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to update video activity: %w", err)
	}

	cm.Name = req.Name
	cm.Completion = models.CompletionTracking(req.Completion)
	if err := s.courses.UpdateModule(ctx, cm); err != nil {
		return nil, fmt.Errorf("failed to update course module: %w", err)
	}

	s.maybeFetchTranscript(ctx, activity, cm.ID)

	return activity, nil
}

// Delete removes the instance, its module row and every owned file.
func (s *VideoActivityService) Delete(ctx context.Context, cm *models.CourseModule) error {
	for _, area := range []string{models.AreaMediaFile, models.AreaResources, models.AreaTranscript} {
		if err := s.files.DeleteArea(ctx, cm.ID, models.ComponentVideoActivity, area); err != nil {
			return fmt.Errorf("failed to delete %s files: %w", area, err)
		}
	}
	if err := s.videos.Delete(ctx, cm.Instance); err != nil {
		return fmt.Errorf("failed to delete video activity: %w", err)
	}
	if err := s.courses.DeleteModule(ctx, cm.ID); err != nil {
		return fmt.Errorf("failed to delete course module: %w", err)
	}
	return nil
}

// AttachMedia stores an uploaded video file and points the instance at
// it. Replaces any previous upload.
func (s *VideoActivityService) AttachMedia(ctx context.Context, cm *models.CourseModule, fileName string, content io.Reader) (*models.StoredFile, error) {
	if err := s.files.DeleteArea(ctx, cm.ID, models.ComponentVideoActivity, models.AreaMediaFile); err != nil {
		return nil, fmt.Errorf("failed to clear media area: %w", err)
	}

	f, err := s.storeFile(ctx, cm.ID, models.AreaMediaFile, fileName, content)
	if err != nil {
		return nil, err
	}

	if err := s.videos.SetSourcePath(ctx, cm.Instance, f.PluginFileURL("")); err != nil {
		return nil, fmt.Errorf("failed to set source path: %w", err)
	}
	return f, nil
}

// AttachResource adds a downloadable file to the resources tab.
func (s *VideoActivityService) AttachResource(ctx context.Context, cm *models.CourseModule, fileName string, content io.Reader) (*models.StoredFile, error) {
	f, err := s.storeFile(ctx, cm.ID, models.AreaResources, fileName, content)
	if err != nil {
		return nil, err
	}
	if err := s.refreshFlags(ctx, cm); err != nil {
		return nil, err
	}
	return f, nil
}

// AttachTranscript replaces the transcript file.
func (s *VideoActivityService) AttachTranscript(ctx context.Context, cm *models.CourseModule, fileName string, content io.Reader) (*models.StoredFile, error) {
	switch FileExt(fileName) {
	case "txt", "pdf", "docx":
	default:
		return nil, &ValidationError{Message: "transcript must be a txt, pdf or docx file"}
	}

	if err := s.files.DeleteArea(ctx, cm.ID, models.ComponentVideoActivity, models.AreaTranscript); err != nil {
		return nil, fmt.Errorf("failed to clear transcript area: %w", err)
	}
	f, err := s.storeFile(ctx, cm.ID, models.AreaTranscript, fileName, content)
	if err != nil {
		return nil, err
	}
	if err := s.refreshFlags(ctx, cm); err != nil {
		return nil, err
	}
	return f, nil
}

// SaveFetchedTranscript is called by the worker once captions arrive.
func (s *VideoActivityService) SaveFetchedTranscript(ctx context.Context, activityID, cmID int64, text string) error {
	diskPath, size, err := s.store.Write([]byte(text))
	if err != nil {
		return fmt.Errorf("failed to store fetched transcript: %w", err)
	}

	if err := s.files.DeleteArea(ctx, cmID, models.ComponentVideoActivity, models.AreaTranscript); err != nil {
		return err
	}
	f := &models.StoredFile{
		ContextID:    cmID,
		Component:    models.ComponentVideoActivity,
		FileArea:     models.AreaTranscript,
		FilePath:     "/",
		FileName:     "transcript.txt",
		FileSize:     size,
		MimeType:     "text/plain",
		DiskPath:     diskPath,
		TimeModified: time.Now(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return fmt.Errorf("failed to record fetched transcript: %w", err)
	}

	activity, err := s.videos.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	return s.videos.SetFlags(ctx, activityID, activity.HasResources, true)
}

func (s *VideoActivityService) storeFile(ctx context.Context, cmID int64, area, fileName string, content io.Reader) (*models.StoredFile, error) {
	diskPath, size, err := s.store.Save(content)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f := &models.StoredFile{
		ContextID:    cmID,
		Component:    models.ComponentVideoActivity,
		FileArea:     area,
		FilePath:     "/",
		FileName:     fileName,
		FileSize:     size,
		MimeType:     mimeType,
		DiskPath:     diskPath,
		TimeModified: time.Now(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to record stored file: %w", err)
	}
	return f, nil
}

func (s *VideoActivityService) refreshFlags(ctx context.Context, cm *models.CourseModule) error {
	resources, err := s.files.ListAreaFiles(ctx, cm.ID, models.ComponentVideoActivity, models.AreaResources, 0)
	if err != nil {
		return err
	}
	transcripts, err := s.files.ListAreaFiles(ctx, cm.ID, models.ComponentVideoActivity, models.AreaTranscript, 0)
	if err != nil {
		return err
	}
	return s.videos.SetFlags(ctx, cm.Instance, len(resources) > 0, len(transcripts) > 0)
}

// maybeFetchTranscript queues a caption download for YouTube sources
// that have no transcript yet.
func (s *VideoActivityService) maybeFetchTranscript(ctx context.Context, activity *models.VideoActivity, cmID int64) {
	if activity.HasTranscript || s.jobs == nil {
		return
	}
	videoID := YouTubeVideoID(activity.SourcePath)
	if videoID == "" {
		return
	}
	job := TranscriptJob{ActivityID: activity.ID, CourseModuleID: cmID, VideoID: videoID}
	if err := s.jobs.EnqueueTranscriptFetch(ctx, job); err != nil {
		log.Printf("Failed to enqueue transcript fetch for activity %d: %v", activity.ID, err)
	}
}

func (s *VideoActivityService) validateRequest(req models.SaveVideoActivityRequest) error {
	if err := s.validate.Struct(req); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fmt.Sprintf("failed %s validation", fe.Tag())
			}
		}
		return &ValidationError{Message: "Validation error", Fields: fields}
	}
	return nil
}

// resolveMediaSource maps the request's media choice onto a source type
// and path. Uploads get their path later, when the file arrives.
func resolveMediaSource(req models.SaveVideoActivityRequest) (models.SourceType, string, error) {
	switch req.MediaSource {
	case "upload":
		return models.SourceUpload, "", nil
	case "url":
		if req.MediaURL == "" {
			return 0, "", &ValidationError{Message: "media URL is required"}
		}
		return models.SourceURL, req.MediaURL, nil
	case "embed":
		src := ExtractEmbedSrc(req.EmbedCode)
		if src == "" {
			return 0, "", &ValidationError{Message: "embed code does not contain a src URL"}
		}
		return models.SourceEmbed, src, nil
	default:
		return 0, "", &ValidationError{Message: "unknown media source"}
	}
}
