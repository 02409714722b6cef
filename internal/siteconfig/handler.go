package siteconfig

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pccreg/internal/platform/middleware"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/httputil"
)

// Handler handles site configuration endpoints.
type Handler struct {
	config *Service
	logger *slog.Logger
}

// NewHandler creates a site configuration Handler.
func NewHandler(config *Service, logger *slog.Logger) *Handler {
	return &Handler{
		config: config,
		logger: logger,
	}
}

// Register registers the public config route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/config", h.handleRead)
}

// RegisterAdmin registers the admin config routes. The caller is expected to
// mount these behind authentication middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/config", h.handleRead)
	r.Patch("/config/mode", h.handleUpdateMode)
	r.Patch("/config/quotas", h.handleUpdateQuotas)
}

func (h *Handler) handleRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.config.Read(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read site config",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cfg)
}

type updateModeRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) handleUpdateMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	actor := middleware.GetAdminUsername(ctx)
	cfg, err := h.config.UpdateMode(ctx, Mode(req.Mode), actor)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to update site config mode",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cfg)
}

type updateQuotasRequest struct {
	MaxQuotaSoftware   int `json:"max_quota_software"`
	MaxQuotaNetwork    int `json:"max_quota_network"`
	MaxQuotaMultimedia int `json:"max_quota_multimedia"`
}

func (h *Handler) handleUpdateQuotas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateQuotasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	actor := middleware.GetAdminUsername(ctx)
	cfg, err := h.config.UpdateQuotas(ctx, req.MaxQuotaSoftware, req.MaxQuotaNetwork, req.MaxQuotaMultimedia, actor)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to update site config quotas",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cfg)
}
