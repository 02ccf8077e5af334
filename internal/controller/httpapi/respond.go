package httpapi

import (
	"net/http"

	"github.com/carelinkhq/telecare/internal/apperr"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

type successEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(successEnvelope{Data: data}); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError maps the error to its status code, hiding internals behind a
// generic message. Internal errors are logged with the full chain.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusCode(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorEnvelope{Error: apperr.ClientMessage(err)}); err != nil {
		s.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// decode reads the request body into dst and runs struct validation on it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := s.validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}

	return nil
}
