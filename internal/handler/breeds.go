package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/nestboxd/internal/security/audit"
	"github.com/yourorg/nestboxd/internal/security/middleware"
	"github.com/yourorg/nestboxd/internal/service"
)

// BreedsGetHandler serves the public breed history of a nestbox.
type BreedsGetHandler struct {
	breeds *service.BreedService
	logger *slog.Logger
}

// NewBreedsGetHandler creates a new breed listing handler
func NewBreedsGetHandler(breeds *service.BreedService, logger *slog.Logger) *BreedsGetHandler {
	return &BreedsGetHandler{breeds: breeds, logger: logger}
}

// ServeHTTP handles GET /nestboxes/{uuid}/breeds requests. Anyone may
// read the history; the discovering user is only disclosed to callers
// holding a valid session.
func (h *BreedsGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	nestboxUUID := r.PathValue("uuid")
	if !isUUID(nestboxUUID) {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	session := middleware.SessionFromContext(r.Context())
	page := pageQuery(r)

	envelope, err := h.breeds.List(r.Context(), nestboxUUID, session, page)
	if err != nil {
		h.logger.Error("failed to list breeds",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	writeJSON(w, http.StatusOK, envelope)
}

// BreedPostRequest carries the observed bird
type BreedPostRequest struct {
	BirdUUID string `json:"bird_uuid"`
}

// BreedPostResponse echoes the stored discovery event
type BreedPostResponse struct {
	UUID          string    `json:"uuid"`
	NestboxUUID   string    `json:"nestbox_uuid"`
	UserUUID      string    `json:"user_uuid"`
	BirdUUID      string    `json:"bird_uuid"`
	DiscoveryDate time.Time `json:"discovery_date"`
}

// BreedsPostHandler records a discovery event on a nestbox.
type BreedsPostHandler struct {
	guard    *service.TenantGuard
	breeds   *service.BreedService
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewBreedsPostHandler creates a new breed creation handler
func NewBreedsPostHandler(guard *service.TenantGuard, breeds *service.BreedService, auditLog *audit.Logger, logger *slog.Logger) *BreedsPostHandler {
	return &BreedsPostHandler{guard: guard, breeds: breeds, auditLog: auditLog, logger: logger}
}

// ServeHTTP handles POST /nestboxes/{uuid}/breeds requests. The session
// must belong to the nestbox's mandant.
func (h *BreedsPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
		h.auditLog.LogDenied(r.Context(), session.MandantUUID(), session.UserUUID(), "breed post on foreign nestbox")
		writeError(w, http.StatusUnauthorized, reasonOtherMandant)
		return
	}

	var req BreedPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !isUUID(req.BirdUUID) {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	breed, err := h.breeds.Create(r.Context(), session, nestboxUUID, req.BirdUUID)
	if err != nil {
		h.logger.Error("failed to record breed",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	writeJSON(w, http.StatusCreated, BreedPostResponse{
		UUID:          breed.UUID,
		NestboxUUID:   breed.NestboxUUID,
		UserUUID:      breed.UserUUID,
		BirdUUID:      breed.BirdUUID,
		DiscoveryDate: breed.DiscoveryDate,
	})
}
