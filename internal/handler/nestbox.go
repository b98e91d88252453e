package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/nestboxd/internal/domain"
)

// NestboxHandler serves the public per-nestbox detail view.
type NestboxHandler struct {
	nestboxes domain.NestboxRepository
	logger    *slog.Logger
}

// NewNestboxHandler creates a new nestbox handler
func NewNestboxHandler(nestboxes domain.NestboxRepository, logger *slog.Logger) *NestboxHandler {
	return &NestboxHandler{nestboxes: nestboxes, logger: logger}
}

// ServeHTTP handles GET /nestboxes/{uuid} requests. The view joins in
// the owning mandant's display fields but never its internal id.
func (h *NestboxHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	nestboxUUID := r.PathValue("uuid")
	if !isUUID(nestboxUUID) {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	detail, err := h.nestboxes.GetDetailByUUID(r.Context(), nestboxUUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, reasonNotFound)
			return
		}
		h.logger.Error("failed to load nestbox",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
