// Package seed bootstraps a fresh deployment: the singleton site config and
// the first admin account.
package seed

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminmodels "pccreg/internal/admin/models"
	"pccreg/internal/siteconfig"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/httputil"
)

// AdminBootstrapper creates or refreshes the seed admin account.
type AdminBootstrapper interface {
	Bootstrap(ctx context.Context, username, password string) (*adminmodels.Admin, error)
}

// ConfigReader lazily creates the singleton config with defaults.
type ConfigReader interface {
	Read(ctx context.Context) (*siteconfig.Config, error)
}

// Handler runs the bootstrap when the caller presents the deployment secret.
type Handler struct {
	secret        string
	adminUsername string
	adminPassword string
	admins        AdminBootstrapper
	config        ConfigReader
	logger        *slog.Logger
}

func NewHandler(secret, adminUsername, adminPassword string, admins AdminBootstrapper, config ConfigReader, logger *slog.Logger) *Handler {
	return &Handler{
		secret:        secret,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		admins:        admins,
		config:        config,
		logger:        logger,
	}
}

// Register registers the seed route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/seed", h.handleSeed)
}

type seedResponse struct {
	Config *siteconfig.Config `json:"config"`
	Admin  string             `json:"admin"`
}

func (h *Handler) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.secret == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "seeding is disabled"))
		return
	}
	provided := r.Header.Get("X-Seed-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "invalid seed secret"))
		return
	}
	if h.adminPassword == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "SEED_ADMIN_PASSWORD is not configured"))
		return
	}

	cfg, err := h.config.Read(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "seed: failed to create site config", "error", err.Error())
		httputil.WriteError(w, err)
		return
	}

	admin, err := h.admins.Bootstrap(ctx, h.adminUsername, h.adminPassword)
	if err != nil {
		h.logger.ErrorContext(ctx, "seed: failed to bootstrap admin", "error", err.Error())
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "deployment seeded", "admin", admin.Username)
	httputil.WriteJSON(w, http.StatusOK, seedResponse{
		Config: cfg,
		Admin:  admin.Username,
	})
}
