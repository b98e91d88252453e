package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/domain"
)

// Error reasons returned in the error_message field. Clients match on
// these strings, so they are part of the API surface.
const (
	reasonUnauthorized = "UNAUTHORIZED"
	reasonOtherMandant = "NESTBOX_OF_OTHER_MANDANT"
	reasonNotFound     = "NOT_FOUND"
	reasonBadRequest   = "BAD_REQUEST"
	reasonInternal     = "INTERNAL_SERVER_ERROR"
)

type errorMessage struct {
	Error        int    `json:"error"`
	ErrorMessage string `json:"error_message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorMessage{Error: 1, ErrorMessage: reason})
}

// pageQuery reads the pagination query parameters. Absent or garbage
// values fall through to zero and are fixed up by Sanitize.
func pageQuery(r *http.Request) domain.PageQuery {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("page_limit"), 10, 64)
	number, _ := strconv.ParseInt(q.Get("page_number"), 10, 64)
	page := domain.PageQuery{Limit: limit, Number: number}
	page.Sanitize()
	return page
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
