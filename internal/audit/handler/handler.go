package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pccreg/internal/audit/service"
	"pccreg/internal/platform/middleware"
	"pccreg/pkg/platform/httputil"
)

// Handler exposes the audit trail to admins.
type Handler struct {
	audit  *service.Recorder
	logger *slog.Logger
}

func New(audit *service.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		audit:  audit,
		logger: logger,
	}
}

// RegisterAdmin registers the audit routes. The caller is expected to mount
// these behind authentication middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.audit.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, events)
}
