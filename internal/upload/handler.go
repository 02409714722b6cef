package upload

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pccreg/internal/platform/middleware"
	dErrors "pccreg/pkg/domain-errors"
	"pccreg/pkg/platform/httputil"
)

// Handler handles the payment-proof upload endpoint.
type Handler struct {
	uploads *Service
	logger  *slog.Logger
}

func NewHandler(uploads *Service, logger *slog.Logger) *Handler {
	return &Handler{
		uploads: uploads,
		logger:  logger,
	}
}

// Register registers the upload route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/uploads", h.handleUpload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Cap the whole request body; the slack covers multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize+64<<10)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidUpload, "file exceeds the 2MB limit"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	result, err := h.uploads.Store(ctx, header.Filename, header.Size, file)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to store upload",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
