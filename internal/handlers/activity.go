package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"learnpath-backend/internal/middleware"
	"learnpath-backend/internal/models"
	"learnpath-backend/internal/repository"
	"learnpath-backend/internal/services"
)

const maxUploadBytes = 2 << 30 // 2GB, matches the upload form limit

// ActivityHandler is the JSON API for video activity management and the
// completion toggle.
type ActivityHandler struct {
	activities *services.VideoActivityService
	completion *services.CompletionService
	modinfo    *services.ModInfoService
	courses    *repository.CourseRepo
}

func NewActivityHandler(
	activities *services.VideoActivityService,
	completion *services.CompletionService,
	modinfo *services.ModInfoService,
	courses *repository.CourseRepo,
) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		completion: completion,
		modinfo:    modinfo,
		courses:    courses,
	}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveVideoActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	cm, activity, err := h.activities.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"course_module": cm,
		"activity":      activity,
	})
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	cm, ok := h.loadModule(w, r)
	if !ok {
		return
	}

	var req models.SaveVideoActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	activity, err := h.activities.Update(r.Context(), cm, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cm, ok := h.loadModule(w, r)
	if !ok {
		return
	}
	if err := h.activities.Delete(r.Context(), cm); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}

func (h *ActivityHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, func(cm *models.CourseModule, name string, body io.Reader) (*models.StoredFile, error) {
		return h.activities.AttachMedia(r.Context(), cm, name, body)
	})
}

func (h *ActivityHandler) UploadResource(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, func(cm *models.CourseModule, name string, body io.Reader) (*models.StoredFile, error) {
		return h.activities.AttachResource(r.Context(), cm, name, body)
	})
}

func (h *ActivityHandler) UploadTranscript(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, func(cm *models.CourseModule, name string, body io.Reader) (*models.StoredFile, error) {
		return h.activities.AttachTranscript(r.Context(), cm, name, body)
	})
}

// ToggleCompletion handles POST /api/v1/modules/{cmid}/completion.
func (h *ActivityHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	cmID, err := strconv.ParseInt(chi.URLParam(r, "cmid"), 10, 64)
	if err != nil || cmID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course module id", r))
		return
	}

	var req models.ToggleCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ctx := r.Context()
	cm, err := h.courses.GetModuleByID(ctx, cmID)
	if err != nil {
		if repository.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Activity not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	course, err := h.modinfo.GetCourse(ctx, cm.CourseID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	mi, err := h.modinfo.Build(ctx, course, false)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	percentage, err := h.completion.Toggle(ctx, mi, cm, middleware.GetUserID(ctx), req.Completed)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"completed":         req.Completed,
		"course_percentage": percentage,
	})
}

func (h *ActivityHandler) upload(w http.ResponseWriter, r *http.Request, attach func(*models.CourseModule, string, io.Reader) (*models.StoredFile, error)) {
	cm, ok := h.loadModule(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file field", r))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("VALIDATION_ERROR", "File too large", r))
		return
	}

	stored, err := attach(cm, header.Filename, file)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *ActivityHandler) loadModule(w http.ResponseWriter, r *http.Request) (*models.CourseModule, bool) {
	cmID, err := strconv.ParseInt(chi.URLParam(r, "cmid"), 10, 64)
	if err != nil || cmID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course module id", r))
		return nil, false
	}
	cm, err := h.courses.GetModuleByTypeAndID(r.Context(), "videoactivity", cmID)
	if err != nil {
		if repository.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Activity not found", r))
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return nil, false
	}
	return cm, true
}
