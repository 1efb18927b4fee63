package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sufield/mapgw/internal/domain"
)

// errorBody is the JSON error document.
type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// statusFor maps a gateway error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidMapName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMapNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEngineUnreachable),
		errors.Is(err, domain.ErrNativeBindingMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrDispatchFailed),
		errors.Is(err, domain.ErrRenderFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error document. Server side failures are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("httpapi: %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: domain.Code(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpapi: write response: %v", err)
	}
}
