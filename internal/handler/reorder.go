package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
	"mentorship/internal/domain/services"
	"mentorship/internal/httputil"
)

// KindRegistry resolves entity kind names. *kinds.Registry satisfies it.
type KindRegistry interface {
	Get(name string) (*models.EntityKind, bool)
}

// ReorderHandler handles the reorder endpoints of every ordered kind
type ReorderHandler struct {
	service services.ReorderService
	kinds   KindRegistry
	logger  *slog.Logger
}

// NewReorderHandler creates a new reorder handler
func NewReorderHandler(service services.ReorderService, kinds KindRegistry, logger *slog.Logger) *ReorderHandler {
	return &ReorderHandler{
		service: service,
		kinds:   kinds,
		logger:  logger,
	}
}

// Reorder returns the handler for one kind. The body carries the ids under
// the kind's field name, e.g. {"chapterIds": [...]} or
// {"moduleIds": [...], "playlistId": "..."}.
// PUT /api/{chapters,modules,videos}/reorder
func (h *ReorderHandler) Reorder(kindName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := h.kinds.Get(kindName)
		if !ok {
			handleError(w, r, h.logger, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kindName))
			return
		}

		var body map[string]json.RawMessage
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req, err := decodeReorder(kind, body)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		if err := h.service.Reorder(r.Context(), kind.Name, req); err != nil {
			handleError(w, r, h.logger, err)
			return
		}

		httputil.RespondSuccess(w)
	}
}

func decodeReorder(kind *models.EntityKind, body map[string]json.RawMessage) (*models.ReorderRequest, error) {
	req := &models.ReorderRequest{}

	if raw, ok := body[kind.IDsField]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &req.IDs); err != nil {
			return nil, fmt.Errorf("%w: %s must be an array of strings", domain.ErrValidation, kind.IDsField)
		}
	}

	if kind.ParentField != "" {
		if raw, ok := body[kind.ParentField]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &req.ParentID); err != nil {
				return nil, fmt.Errorf("%w: %s must be a string", domain.ErrValidation, kind.ParentField)
			}
		}
	}

	return req, nil
}
