package handler

import (
	"log/slog"
	"net/http"

	"github.com/arenaretail/pos/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorResponse writes a JSON error response for a domain error. Internal
// errors are logged with their cause but the response only carries the
// generic message, so storage details never reach the terminal.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	message := domain.ErrorMessage(err)
	if code == domain.EINTERNAL {
		logger.Error("internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"op", domain.ErrorOp(err),
			"error", err,
		)
		message = "An internal error has occurred."
	}

	respondJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
