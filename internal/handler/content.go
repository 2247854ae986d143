package handler

import (
	"log/slog"
	"net/http"

	"mentorship/internal/domain/services"
	"mentorship/internal/httputil"
)

// ContentHandler handles course, chapter, module and video HTTP requests
type ContentHandler struct {
	service services.ContentService
	logger  *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(service services.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger,
	}
}

// ListCourses returns every course
// GET /api/courses
func (h *ContentHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse retrieves a course by ID
// GET /api/courses/{id}
func (h *ContentHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, course)
}

// CreateCourse creates a new course
// POST /api/courses
func (h *ContentHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCourseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.service.CreateCourse(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, course)
}

// GetEntity retrieves one entity
// GET /api/chapters/{id}, /api/modules/{id}, /api/videos/{id}
func (h *ContentHandler) GetEntity(kindName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity, err := h.service.GetEntity(r.Context(), kindName, r.PathValue("id"))
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		httputil.RespondJSON(w, http.StatusOK, entity)
	}
}

// ListEntities lists the children of the {id} path parent in order
// GET /api/courses/{id}/chapters, /api/playlists/{id}/modules, /api/modules/{id}/videos
func (h *ContentHandler) ListEntities(kindName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities, err := h.service.ListEntities(r.Context(), kindName, r.PathValue("id"))
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		httputil.RespondJSON(w, http.StatusOK, entities)
	}
}

// CreateEntity appends a child to the {id} path parent
// POST /api/courses/{id}/chapters, /api/playlists/{id}/modules, /api/modules/{id}/videos
func (h *ContentHandler) CreateEntity(kindName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateEntityRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ParentID = r.PathValue("id")

		entity, err := h.service.CreateEntity(r.Context(), kindName, &req)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		httputil.RespondJSON(w, http.StatusCreated, entity)
	}
}

// DeleteEntity removes one entity
// DELETE /api/chapters/{id}, /api/modules/{id}, /api/videos/{id}
func (h *ContentHandler) DeleteEntity(kindName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.DeleteEntity(r.Context(), kindName, r.PathValue("id")); err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
