// ABOUTME: JSON envelope helpers and error-to-status mapping
// ABOUTME: Every response carries success:true or success:false plus error

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/elsabor/comanda/internal/store"
)

// envelope is the uniform response body. writeOK forces success:true,
// writeError success:false.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "error": msg})
}

// writeStoreError maps the store's sentinel errors onto HTTP statuses. The
// error text goes into the envelope verbatim; the store never embeds
// secrets in its messages.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrIncorrectPIN):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrLastAdmin):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody parses the request body into dst, answering a 400 envelope on
// failure. Reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
