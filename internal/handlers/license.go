package handlers

import (
	"encoding/json"
	"net/http"

	"learnpath-backend/internal/models"
	"learnpath-backend/internal/services"
)

type LicenseHandler struct {
	license *services.LicenseService
}

func NewLicenseHandler(license *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{license: license}
}

// Activate handles POST /api/v1/license/activate (admin only).
func (h *LicenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req models.ActivateLicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	license, err := h.license.Activate(r.Context(), req.Key)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, license)
}

// Status handles GET /api/v1/license (admin only).
func (h *LicenseHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.license.Status(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
