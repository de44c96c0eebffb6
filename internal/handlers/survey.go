package handlers

import (
	"net/http"

	"learnpath-backend/internal/middleware"
	"learnpath-backend/internal/services"
)

type SurveyHandler struct {
	survey *services.SurveyService
}

func NewSurveyHandler(survey *services.SurveyService) *SurveyHandler {
	return &SurveyHandler{survey: survey}
}

// Eligibility handles GET /api/v1/survey.
func (h *SurveyHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	show := h.survey.ShouldShow(r.Context(), middleware.GetUserID(r.Context()), middleware.GetIsAdmin(r.Context()))
	writeJSON(w, http.StatusOK, map[string]bool{"show": show})
}

// Dismiss handles POST /api/v1/survey/dismiss; answering and dismissing
// both retire the prompt permanently.
func (h *SurveyHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.survey.MarkDone(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Survey dismissed"})
}
