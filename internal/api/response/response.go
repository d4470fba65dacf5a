// Package response writes JSON bodies and {"detail": ...} errors.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/logger"
)

type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Error maps err to its status and detail. Errors without one become a 500
// and are logged, since their text is never shown to the caller.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		log.Error("unhandled error", "error", err)
		JSON(w, http.StatusInternalServerError, ErrorBody{Detail: "Internal Server Error"})
		return
	}
	if ae.Status >= http.StatusInternalServerError {
		log.Error("request failed", "status", ae.Status, "error", err)
	}
	if ae.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(w, ae.Status, ErrorBody{Detail: ae.Detail})
}
