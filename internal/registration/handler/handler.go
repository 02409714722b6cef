package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pccreg/internal/platform/middleware"
	"pccreg/internal/registration/models"
	"pccreg/internal/registration/service"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/httputil"
)

// Service defines the registration operations the handler depends on.
type Service interface {
	Submit(ctx context.Context, in service.SubmitInput) (*models.Registration, error)
	List(ctx context.Context) ([]*models.Registration, error)
	QuotaInfo(ctx context.Context) (*models.QuotaInfo, error)
	UpdateStatus(ctx context.Context, id string, status models.Status, actor string) (*models.Registration, error)
	Delete(ctx context.Context, id string, actor string) error
}

// Handler handles registration endpoints.
type Handler struct {
	registrations Service
	logger        *slog.Logger
}

// New creates a registration Handler.
func New(registrations Service, logger *slog.Logger) *Handler {
	return &Handler{
		registrations: registrations,
		logger:        logger,
	}
}

// Register registers the public read routes. The list is public because the
// site shows who has registered; sensitive admin actions stay behind auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registrations", h.handleList)
	r.Get("/registrations/quota", h.handleQuota)
}

// RegisterSubmit registers the submission route separately so the caller can
// wrap it in a tighter rate limit than the rest of the API.
func (h *Handler) RegisterSubmit(r chi.Router) {
	r.Post("/registrations", h.handleSubmit)
}

// RegisterAdmin registers the admin registration routes. The caller is
// expected to mount these behind authentication middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/registrations", h.handleList)
	r.Get("/registrations/export", h.handleExportCSV)
	r.Patch("/registrations/{id}/status", h.handleUpdateStatus)
	r.Delete("/registrations/{id}", h.handleDelete)
}

type submitRequest struct {
	FullName     string `json:"full_name"`
	NIM          string `json:"nim"`
	StudyProgram string `json:"study_program"`
	Major        string `json:"major"`
	Track        string `json:"track"`
	WhatsApp     string `json:"whatsapp"`
	ProofURL     string `json:"proof_url"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	track, err := models.ParseTrack(req.Track)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reg, err := h.registrations.Submit(ctx, service.SubmitInput{
		FullName:     req.FullName,
		NIM:          req.NIM,
		StudyProgram: req.StudyProgram,
		Major:        req.Major,
		Track:        track,
		WhatsApp:     req.WhatsApp,
		ProofURL:     req.ProofURL,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to submit registration",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) handleQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.registrations.QuotaInfo(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read quota info",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.registrations.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, regs)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	actor := middleware.GetAdminUsername(ctx)
	reg, err := h.registrations.UpdateStatus(ctx, id, models.Status(req.Status), actor)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to update registration status",
				"request_id", middleware.GetRequestID(ctx),
				"registration_id", id,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	actor := middleware.GetAdminUsername(ctx)
	if err := h.registrations.Delete(ctx, id, actor); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to delete registration",
				"request_id", middleware.GetRequestID(ctx),
				"registration_id", id,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.registrations.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export registrations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("registrations-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"full_name", "nim", "study_program", "major", "track", "whatsapp", "status", "created_at"})
	for _, reg := range regs {
		_ = cw.Write([]string{
			reg.FullName,
			reg.NIM,
			reg.StudyProgram,
			reg.Major,
			string(reg.Track),
			reg.WhatsApp,
			string(reg.Status),
			reg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.ErrorContext(ctx, "failed to write csv export",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
