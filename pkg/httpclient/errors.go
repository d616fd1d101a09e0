package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/samijoehayek/opus-oakadmin/pkg/errors"
)

// ErrorBody covers the error shapes the catalog API answers with: a bare
// {"message": "..."} object, a validation {"message": ["...", "..."]} list,
// the framework default {"message", "error": "Bad Request"} and the enveloped
// {"error": {"code", "message"}}.
type ErrorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (b ErrorBody) message() string {
	var nested struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(b.Error, &nested) == nil {
		if msg := rawMessage(nested.Message); msg != "" {
			return msg
		}
	}
	return rawMessage(b.Message)
}

// rawMessage reads a message that is either a string or a list of strings.
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, m := range list {
			if m = strings.TrimSpace(m); m != "" {
				parts = append(parts, m)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an AppError. The collaborator's message is preserved when present,
// otherwise fallback is used. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, fallback string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Upstream(fallback, fmt.Errorf("status %d, read body: %w", resp.StatusCode, err))
	}

	var body ErrorBody
	message := ""
	if json.Unmarshal(bodyBytes, &body) == nil {
		message = body.message()
	}

	return mapStatus(resp.StatusCode, message, fallback)
}

// mapStatus turns a collaborator status code plus optional message into an
// AppError.
func mapStatus(status int, message, fallback string) error {
	msg := message
	if msg == "" {
		msg = fallback
	}
	cause := fmt.Errorf("catalog returned status %d", status)

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{Code: "NOT_FOUND", Message: msg, Status: http.StatusNotFound, Err: apperrors.ErrNotFound}
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(msg)
	case status == http.StatusConflict:
		return apperrors.Conflict(msg)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return &apperrors.AppError{Code: "INVALID_INPUT", Message: msg, Status: http.StatusBadRequest, Err: apperrors.ErrInvalidInput}
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(msg, cause)
	default:
		return apperrors.Upstream(msg, cause)
	}
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
