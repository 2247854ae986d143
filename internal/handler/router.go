package handler

import (
	"log/slog"
	"net/http"

	"mentorship/internal/domain/models"
	"mentorship/internal/domain/services"
	"mentorship/internal/metrics"
	"mentorship/internal/middleware"
)

// RouterConfig holds everything the routes are built from
type RouterConfig struct {
	Reorder services.ReorderService
	Content services.ContentService
	Gate    services.AdminGate
	Kinds   KindRegistry
	Logger  *slog.Logger
}

// NewRouter registers every route on a new ServeMux. Mutations are wrapped in
// RequireAdmin; reads are public.
func NewRouter(cfg *RouterConfig) *http.ServeMux {
	reorderHandler := NewReorderHandler(cfg.Reorder, cfg.Kinds, cfg.Logger)
	contentHandler := NewContentHandler(cfg.Content, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Gate, cfg.Logger)

	requireAdmin := middleware.RequireAdmin(cfg.Gate, cfg.Logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return requireAdmin(h)
	}

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/admin/status", adminHandler.Status)

	// Reorder routes
	mux.Handle("PUT /api/chapters/reorder", admin(reorderHandler.Reorder(models.KindChapter)))
	mux.Handle("PUT /api/modules/reorder", admin(reorderHandler.Reorder(models.KindModule)))
	mux.Handle("PUT /api/videos/reorder", admin(reorderHandler.Reorder(models.KindVideo)))

	// Course routes
	mux.HandleFunc("GET /api/courses", contentHandler.ListCourses)
	mux.Handle("POST /api/courses", admin(contentHandler.CreateCourse))
	mux.HandleFunc("GET /api/courses/{id}", contentHandler.GetCourse)

	// Collection routes
	mux.HandleFunc("GET /api/courses/{id}/chapters", contentHandler.ListEntities(models.KindChapter))
	mux.Handle("POST /api/courses/{id}/chapters", admin(contentHandler.CreateEntity(models.KindChapter)))
	mux.HandleFunc("GET /api/playlists/{id}/modules", contentHandler.ListEntities(models.KindModule))
	mux.Handle("POST /api/playlists/{id}/modules", admin(contentHandler.CreateEntity(models.KindModule)))
	mux.HandleFunc("GET /api/modules/{id}/videos", contentHandler.ListEntities(models.KindVideo))
	mux.Handle("POST /api/modules/{id}/videos", admin(contentHandler.CreateEntity(models.KindVideo)))

	mux.HandleFunc("GET /api/chapters/{id}", contentHandler.GetEntity(models.KindChapter))
	mux.HandleFunc("GET /api/modules/{id}", contentHandler.GetEntity(models.KindModule))
	mux.HandleFunc("GET /api/videos/{id}", contentHandler.GetEntity(models.KindVideo))

	mux.Handle("DELETE /api/chapters/{id}", admin(contentHandler.DeleteEntity(models.KindChapter)))
	mux.Handle("DELETE /api/modules/{id}", admin(contentHandler.DeleteEntity(models.KindModule)))
	mux.Handle("DELETE /api/videos/{id}", admin(contentHandler.DeleteEntity(models.KindVideo)))

	return mux
}
