package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"learnpath-backend/internal/middleware"
	"learnpath-backend/internal/models"
	"learnpath-backend/internal/render"
	"learnpath-backend/internal/services"
)

// CourseHandler serves the course view page: the full section listing
// or, when a valid (modtype, modid) pair is present, one embedded
// activity.
type CourseHandler struct {
	modinfo    *services.ModInfoService
	router     *services.ActivityRouter
	page       *services.CoursePageService
	survey     *services.SurveyService
	license    *services.LicenseService
	completion *services.CompletionService
	accessLog  *services.AccessLog
	renderer   *render.Renderer
}

func NewCourseHandler(
	modinfo *services.ModInfoService,
	router *services.ActivityRouter,
	page *services.CoursePageService,
	survey *services.SurveyService,
	license *services.LicenseService,
	completion *services.CompletionService,
	accessLog *services.AccessLog,
	renderer *render.Renderer,
) *CourseHandler {
	return &CourseHandler{
		modinfo:    modinfo,
		router:     router,
		page:       page,
		survey:     survey,
		license:    license,
		completion: completion,
		accessLog:  accessLog,
		renderer:   renderer,
	}
}

// View handles GET /course/view.php.
func (h *CourseHandler) View(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || courseID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course id", r))
		return
	}

	ctx := r.Context()
	user := viewUser(r)

	course, err := h.modinfo.GetCourse(ctx, courseID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	mi, err := h.modinfo.Build(ctx, course, user.CanViewHidden)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	q := r.URL.Query()
	decision := h.router.Decide(mi, q.Get("section"), q.Get("modtype"), q.Get("modid"))

	if decision.Template == services.TemplateActivityView {
		view, err := h.router.BuildActivityView(ctx, mi, decision.Module, user)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		view.ShowSurvey = h.survey.ShouldShow(ctx, user.ID, middleware.GetIsAdmin(ctx))

		h.accessLog.RecordView(ctx, user.ID, course.ID, decision.Module.ID)
		// View tracking never blocks the page.
		if err := h.completion.MarkViewed(ctx, mi, decision.Module, user.ID); err != nil {
			log.Printf("Failed to mark cm %d viewed: %v", decision.Module.ID, err)
		}

		h.renderer.HTML(w, http.StatusOK, services.TemplateActivityView, view)
		return
	}

	page, err := h.page.Build(ctx, mi, user, decision.SectionNum)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	page.ShowSurvey = h.survey.ShouldShow(ctx, user.ID, middleware.GetIsAdmin(ctx))
	page.LicenseNotice = h.license.Notice(ctx, middleware.GetIsAdmin(ctx))

	h.renderer.HTML(w, http.StatusOK, services.TemplateCourseContent, page)
}

// FormatOptions handles PUT /api/v1/courses/{id}/format-options.
func (h *CourseHandler) FormatOptions(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || courseID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course id", r))
		return
	}

	var opts models.FormatOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	course, err := h.modinfo.GetCourse(r.Context(), courseID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.page.SaveFormatOptions(r.Context(), course.ID, course.Format, opts); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Format options saved"})
}

// viewUser builds the request identity from the auth context. Admins
// can see hidden modules and edit.
func viewUser(r *http.Request) services.ViewUser {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	isAdmin := middleware.GetIsAdmin(ctx)
	return services.ViewUser{
		ID:            userID,
		CanComplete:   userID != uuid.Nil,
		CanViewHidden: isAdmin,
		IsEditing:     isAdmin && r.URL.Query().Get("edit") == "1",
	}
}
