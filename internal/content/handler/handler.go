package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pccreg/internal/content/models"
	"pccreg/internal/platform/middleware"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/httputil"
)

// Service defines the content operations the handler depends on.
type Service interface {
	TeamMembers(ctx context.Context) ([]*models.TeamMember, error)
	CreateTeamMember(ctx context.Context, m *models.TeamMember, actor string) (*models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, m *models.TeamMember, actor string) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id, actor string) error

	Sponsors(ctx context.Context) ([]*models.Sponsor, error)
	CreateSponsor(ctx context.Context, sp *models.Sponsor, actor string) (*models.Sponsor, error)
	UpdateSponsor(ctx context.Context, sp *models.Sponsor, actor string) (*models.Sponsor, error)
	DeleteSponsor(ctx context.Context, id, actor string) error

	Qna(ctx context.Context) ([]*models.QnaItem, error)
	PublicQna(ctx context.Context, modeOverride string) ([]*models.QnaItem, error)
	CreateQnaItem(ctx context.Context, q *models.QnaItem, actor string) (*models.QnaItem, error)
	UpdateQnaItem(ctx context.Context, q *models.QnaItem, actor string) (*models.QnaItem, error)
	DeleteQnaItem(ctx context.Context, id, actor string) error
}

// Handler handles landing-page content endpoints.
type Handler struct {
	content Service
	logger  *slog.Logger
}

// New creates a content Handler.
func New(content Service, logger *slog.Logger) *Handler {
	return &Handler{
		content: content,
		logger:  logger,
	}
}

// Register registers the public content routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/team", h.handleListTeam)
	r.Get("/sponsors", h.handleListSponsors)
	r.Get("/qna", h.handlePublicQna)
}

// RegisterAdmin registers the admin content routes. The caller is expected to
// mount these behind authentication middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/team", h.handleListTeam)
	r.Post("/team", h.handleCreateTeamMember)
	r.Put("/team/{id}", h.handleUpdateTeamMember)
	r.Delete("/team/{id}", h.handleDeleteTeamMember)

	r.Get("/sponsors", h.handleListSponsors)
	r.Post("/sponsors", h.handleCreateSponsor)
	r.Put("/sponsors/{id}", h.handleUpdateSponsor)
	r.Delete("/sponsors/{id}", h.handleDeleteSponsor)

	r.Get("/qna", h.handleListQna)
	r.Post("/qna", h.handleCreateQnaItem)
	r.Put("/qna/{id}", h.handleUpdateQnaItem)
	r.Delete("/qna/{id}", h.handleDeleteQnaItem)
}

func (h *Handler) handleListTeam(w http.ResponseWriter, r *http.Request) {
	members, err := h.content.TeamMembers(r.Context())
	if err != nil {
		h.logError(r, "failed to list team members", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, members)
}

func (h *Handler) handleCreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var m models.TeamMember
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.content.CreateTeamMember(r.Context(), &m, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to create team member", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var m models.TeamMember
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	m.ID = chi.URLParam(r, "id")

	updated, err := h.content.UpdateTeamMember(r.Context(), &m, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to update team member", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	err := h.content.DeleteTeamMember(r.Context(), chi.URLParam(r, "id"), middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to delete team member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.content.Sponsors(r.Context())
	if err != nil {
		h.logError(r, "failed to list sponsors", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sponsors)
}

func (h *Handler) handleCreateSponsor(w http.ResponseWriter, r *http.Request) {
	var sp models.Sponsor
	if err := json.NewDecoder(r.Body).Decode(&sp); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.content.CreateSponsor(r.Context(), &sp, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to create sponsor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateSponsor(w http.ResponseWriter, r *http.Request) {
	var sp models.Sponsor
	if err := json.NewDecoder(r.Body).Decode(&sp); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	sp.ID = chi.URLParam(r, "id")

	updated, err := h.content.UpdateSponsor(r.Context(), &sp, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to update sponsor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteSponsor(w http.ResponseWriter, r *http.Request) {
	err := h.content.DeleteSponsor(r.Context(), chi.URLParam(r, "id"), middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to delete sponsor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePublicQna(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.PublicQna(r.Context(), r.URL.Query().Get("mode"))
	if err != nil {
		h.logError(r, "failed to list public qna", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleListQna(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.Qna(r.Context())
	if err != nil {
		h.logError(r, "failed to list qna", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreateQnaItem(w http.ResponseWriter, r *http.Request) {
	var q models.QnaItem
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.content.CreateQnaItem(r.Context(), &q, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to create qna item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateQnaItem(w http.ResponseWriter, r *http.Request) {
	var q models.QnaItem
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	q.ID = chi.URLParam(r, "id")

	updated, err := h.content.UpdateQnaItem(r.Context(), &q, middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to update qna item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteQnaItem(w http.ResponseWriter, r *http.Request) {
	err := h.content.DeleteQnaItem(r.Context(), chi.URLParam(r, "id"), middleware.GetAdminUsername(r.Context()))
	if err != nil {
		h.writeDomainError(w, r, "failed to delete qna item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logError(r, msg, err)
	}
	httputil.WriteError(w, err)
}
