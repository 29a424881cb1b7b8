package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "council/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders the shared JSON error envelope. Internal and
// dependency failures omit the message so backend details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": errorLabel(code)}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		// no description
	default:
		var dErr *dErrors.Error
		if errors.As(err, &dErr) {
			body["error_description"] = dErr.Message
		}
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// errorLabel is the wire spelling of a code.
func errorLabel(code dErrors.Code) string {
	if code == dErrors.CodeInternal {
		return "internal_error"
	}
	return string(code)
}

// DecodeAndPrepare decodes a JSON request body into T. On failure it writes
// a bad_request envelope and reports false; the handler should return.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "failed to decode request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}
