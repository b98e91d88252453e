package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/nestboxd/internal/security/audit"
	"github.com/yourorg/nestboxd/internal/security/middleware"
	"github.com/yourorg/nestboxd/internal/service"
)

// GeolocationPostRequest carries the nestbox's new position
type GeolocationPostRequest struct {
	Longitude float64 `json:"long"`
	Latitude  float64 `json:"lat"`
}

// GeolocationPostResponse returns the id of the inserted record
type GeolocationPostResponse struct {
	InsertedID string `json:"inserted_id"`
}

// GeolocationsPostHandler records a nestbox relocation.
type GeolocationsPostHandler struct {
	guard        *service.TenantGuard
	geolocations *service.GeolocationService
	auditLog     *audit.Logger
	logger       *slog.Logger
}

// NewGeolocationsPostHandler creates a new geolocation handler
func NewGeolocationsPostHandler(guard *service.TenantGuard, geolocations *service.GeolocationService, auditLog *audit.Logger, logger *slog.Logger) *GeolocationsPostHandler {
	return &GeolocationsPostHandler{guard: guard, geolocations: geolocations, auditLog: auditLog, logger: logger}
}

// ServeHTTP handles POST /nestboxes/{uuid}/geolocations requests. The
// session must belong to the nestbox's mandant.
func (h *GeolocationsPostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
		h.auditLog.LogDenied(r.Context(), session.MandantUUID(), session.UserUUID(), "geolocation post on foreign nestbox")
		writeError(w, http.StatusUnauthorized, reasonOtherMandant)
		return
	}

	var req GeolocationPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	geolocation, err := h.geolocations.Post(r.Context(), nestboxUUID, req.Longitude, req.Latitude)
	if err != nil {
		h.logger.Error("failed to store geolocation",
			slog.String("nestbox_uuid", nestboxUUID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	writeJSON(w, http.StatusCreated, GeolocationPostResponse{InsertedID: geolocation.UUID})
}
