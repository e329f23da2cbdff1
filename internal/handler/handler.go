package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"dinekart/internal/middleware"
	"dinekart/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).Int("status", status).Str("request_id", requestID).Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	})
}

// statusFor maps a domain error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeMenuItemNotFound, model.ErrCodeOrderNotFound, model.ErrCodePromotionNotFound:
		return http.StatusNotFound
	case model.ErrCodePromotionExists, model.ErrCodeInvalidStatusTransition:
		return http.StatusConflict
	case model.ErrCodePaymentSessionFailed:
		return http.StatusBadGateway
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// handleError translates a service error into the error envelope. Only domain error
// messages reach the client; anything else is reported as an internal error.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusFor(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger = logger.With().Err(err).Str("path", r.URL.Path).Logger()
		}
		writeError(w, r, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger = logger.With().Err(err).Str("path", r.URL.Path).Logger()
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "An unexpected error occurred", logger)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is not valid JSON")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Request body must contain a single JSON object")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid "+name+" parameter")
	}
	return v, nil
}

// pagination reads limit and offset.
func pagination(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit", 0); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
