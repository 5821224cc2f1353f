package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/thriftedhq/thrifted/internal/common"
)

// errorBody is the wire shape of every surfaced error: a stable
// machine-readable kind plus a human-readable message. Internal detail
// (driver errors, queries) never leaves the server.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := classify(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", strconv.Itoa(int(s.rateWindow.Seconds())))
	}

	writeJSON(w, status, errorBody{Error: kind, Message: msg})
}

func classify(err error) (kind string, status int) {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return "invalid_argument", http.StatusBadRequest
	case errors.Is(err, common.ErrorResetTokenInvalid):
		return "invalid_token", http.StatusBadRequest
	case errors.Is(err, common.ErrorEmptyCart):
		return "empty_cart", http.StatusBadRequest
	case errors.Is(err, common.ErrorInvalidCredentials):
		return "invalid_credentials", http.StatusUnauthorized
	case errors.Is(err, common.ErrorNoSession), errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized", http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return "forbidden", http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, common.ErrorDuplicate):
		return "duplicate", http.StatusConflict
	case errors.Is(err, common.ErrorRateLimited):
		return "rate_limited", http.StatusTooManyRequests
	case errors.Is(err, common.ErrorMailDelivery):
		return "mail_delivery", http.StatusBadGateway
	default:
		return "internal", http.StatusInternalServerError
	}
}
