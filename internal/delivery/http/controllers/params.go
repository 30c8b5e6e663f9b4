package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"voluntapp/internal/delivery/http/helpers"
)

// pathID extracts a UUID path value. On a missing or malformed value it
// writes a 400 error and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if _, err := uuid.Parse(raw); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return raw, true
}
