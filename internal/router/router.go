package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"learnpath-backend/internal/handlers"
	"learnpath-backend/internal/middleware"
	"learnpath-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
	modViewHandler *handlers.ModViewHandler,
	activityHandler *handlers.ActivityHandler,
	fileHandler *handlers.FileHandler,
	licenseHandler *handlers.LicenseHandler,
	surveyHandler *handlers.SurveyHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	staticDir string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Page Routes (identity optional) ────
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.OptionalMiddleware)
		r.Get("/course/view.php", courseHandler.View)
		r.Get("/mod/{modtype}/view.php", modViewHandler.View)
	})

	// ──── File serving ────
	r.Get("/pluginfile.php/*", fileHandler.Serve)
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// ──── Activity Management (admin) ────
		r.Route("/activities", func(r chi.Router) {
			r.Use(jwtAuth.Middleware, middleware.RequireAdmin)
			r.Post("/", activityHandler.Create)
			r.Put("/{cmid}", activityHandler.Update)
			r.Delete("/{cmid}", activityHandler.Delete)
			r.Post("/{cmid}/media", activityHandler.UploadMedia)
			r.Post("/{cmid}/resources", activityHandler.UploadResource)
			r.Post("/{cmid}/transcript", activityHandler.UploadTranscript)
		})

		// ──── Course Format Options (admin) ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware, middleware.RequireAdmin)
			r.Put("/{id}/format-options", courseHandler.FormatOptions)
		})

		// ──── Completion ────
		r.Route("/modules", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/{cmid}/completion", activityHandler.ToggleCompletion)
		})

		// ──── License (admin) ────
		r.Route("/license", func(r chi.Router) {
			r.Use(jwtAuth.Middleware, middleware.RequireAdmin, authLimiter.Middleware)
			r.Get("/", licenseHandler.Status)
			r.Post("/activate", licenseHandler.Activate)
		})

		// ──── Survey ────
		r.Route("/survey", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", surveyHandler.Eligibility)
			r.Post("/dismiss", surveyHandler.Dismiss)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
