package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"learnpath-backend/internal/render"
	"learnpath-backend/internal/repository"
	"learnpath-backend/internal/services"
)

// ModViewHandler serves /mod/{modtype}/view.php. Inside a video-path
// course the module's own page does not exist as a destination: the
// request is redirected to the course page with the module embedded.
type ModViewHandler struct {
	courses    *repository.CourseRepo
	modinfo    *services.ModInfoService
	router     *services.ActivityRouter
	completion *services.CompletionService
	accessLog  *services.AccessLog
	renderer   *render.Renderer
	baseURL    string
}

func NewModViewHandler(
	courses *repository.CourseRepo,
	modinfo *services.ModInfoService,
	router *services.ActivityRouter,
	completion *services.CompletionService,
	accessLog *services.AccessLog,
	renderer *render.Renderer,
	baseURL string,
) *ModViewHandler {
	return &ModViewHandler{
		courses:    courses,
		modinfo:    modinfo,
		router:     router,
		completion: completion,
		accessLog:  accessLog,
		renderer:   renderer,
		baseURL:    baseURL,
	}
}

// View handles GET /mod/{modtype}/view.php?id=N.
func (h *ModViewHandler) View(w http.ResponseWriter, r *http.Request) {
	modType := chi.URLParam(r, "modtype")
	cmID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || cmID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course module id", r))
		return
	}

	ctx := r.Context()
	cm, err := h.courses.GetModuleByTypeAndID(ctx, modType, cmID)
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

	// Video-path courses keep the learner on the course page.
	if course.Format == "videopath" {
		http.Redirect(w, r,
			services.CanonicalModuleURL(h.baseURL, course.ID, cm.ModName, cm.ID),
			http.StatusFound)
		return
	}

	user := viewUser(r)
	mi, err := h.modinfo.Build(ctx, course, user.CanViewHidden)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	resolved := mi.CMs[cm.ID]
	if resolved == nil || !resolved.UserVisible && resolved.AvailableInfo == "" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Activity not found", r))
		return
	}

	view, err := h.router.BuildActivityView(ctx, mi, resolved, user)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.accessLog.RecordView(ctx, user.ID, course.ID, cm.ID)
	// View tracking never blocks the page.
	if err := h.completion.MarkViewed(ctx, mi, resolved, user.ID); err != nil {
		log.Printf("Failed to mark cm %d viewed: %v", cm.ID, err)
	}

	h.renderer.HTML(w, http.StatusOK, services.TemplateActivityView, view)
}
