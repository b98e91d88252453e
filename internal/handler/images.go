package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/security/audit"
	"github.com/yourorg/nestboxd/internal/security/middleware"
	"github.com/yourorg/nestboxd/internal/service"
)

// ImagePostResponse lists the content-derived names of the stored files
type ImagePostResponse struct {
	FileName []string `json:"file_name"`
}

// ImagesPostHandler attaches uploaded images to a nestbox.
type ImagesPostHandler struct {
	guard     *service.TenantGuard
	images    *service.ImageService
	nestboxes domain.NestboxRepository
	auditLog  *audit.Logger
	logger    *slog.Logger
}

// NewImagesPostHandler creates a new image upload handler
func NewImagesPostHandler(guard *service.TenantGuard, images *service.ImageService, nestboxes domain.NestboxRepository, auditLog *audit.Logger, logger *slog.Logger) *ImagesPostHandler {
	return &ImagesPostHandler{guard: guard, images: images, nestboxes: nestboxes, auditLog: auditLog, logger: logger}
}

// ServeHTTP handles POST /nestboxes/{uuid}/images requests. Files are
// stored under their content digest and recorded on the nestbox; a batch
// where no part survives ingestion is a client error.
func (h *ImagesPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	nestboxUUID := r.PathValue("uuid")
	if !isUUID(nestboxUUID) {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	session := middleware.SessionFromContext(r.Context())
	decision, err := h.guard.Authorize(r.Context(), session, nestboxUUID)
	if err != nil {
		h.logger.Error("authorization check failed",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}
	switch decision {
	case service.DecisionNotAuthenticated:
		writeError(w, http.StatusUnauthorized, reasonUnauthorized)
		return
	case service.DecisionWrongTenant:
		h.auditLog.LogDenied(r.Context(), session.MandantUUID(), session.UserUUID(), "image upload on foreign nestbox")
		writeError(w, http.StatusUnauthorized, reasonOtherMandant)
		return
	}

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	names := h.images.Ingest(r.Context(), reader)
	if len(names) == 0 {
		h.auditLog.LogUpload(r.Context(), session.MandantUUID(), session.UserUUID(), nestboxUUID, "rejected", "no usable parts")
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	if err := h.nestboxes.AppendImages(r.Context(), nestboxUUID, names); err != nil {
		h.logger.Error("failed to record images on nestbox",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	h.auditLog.LogUpload(r.Context(), session.MandantUUID(), session.UserUUID(), nestboxUUID, "stored", strings.Join(names, ","))
	writeJSON(w, http.StatusCreated, ImagePostResponse{FileName: names})
}
