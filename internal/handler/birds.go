package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/security/middleware"
)

// BirdsHandler lists the bird catalog of the session's mandant.
type BirdsHandler struct {
	birds  domain.BirdRepository
	logger *slog.Logger
}

// NewBirdsHandler creates a new birds handler
func NewBirdsHandler(birds domain.BirdRepository, logger *slog.Logger) *BirdsHandler {
	return &BirdsHandler{birds: birds, logger: logger}
}

// ServeHTTP handles GET /birds requests. The catalog is tenant-scoped,
// so a session is required.
func (h *BirdsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if !session.Valid() {
		writeError(w, http.StatusUnauthorized, reasonUnauthorized)
		return
	}

	page := pageQuery(r)
	birds, total, err := h.birds.ListByMandant(r.Context(), session.MandantUUID(), page)
	if err != nil {
		h.logger.Error("failed to list birds",
			slog.String("mandant_uuid", session.MandantUUID()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	writeJSON(w, http.StatusOK, domain.NewPageEnvelope(birds, total, page))
}
