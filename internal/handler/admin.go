package handler

import (
	"log/slog"
	"net/http"

	"mentorship/internal/domain"
	"mentorship/internal/domain/services"
	"mentorship/internal/httputil"
)

// AdminStatusResponse tells the frontend whether to show admin controls.
type AdminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// AdminHandler exposes the admin gate to clients
type AdminHandler struct {
	gate   services.AdminGate
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(gate services.AdminGate, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		gate:   gate,
		logger: logger,
	}
}

// Status reports whether the caller is an admin
// GET /api/admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		handleError(w, r, h.logger, &domain.UnauthorizedError{Message: "authentication required"})
		return
	}

	isAdmin, err := h.gate.IsAdmin(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, AdminStatusResponse{IsAdmin: isAdmin})
}
