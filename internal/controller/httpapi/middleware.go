package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/carelinkhq/telecare/internal/model"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// AuthStore resolves a bearer token to its account.
type AuthStore interface {
	GetByAuthToken(ctx context.Context, token string) (*model.User, error)
}

type contextKey string

const contextUserKey contextKey = "user"

// authenticate resolves the Authorization header and stores the account in
// the request context. Unknown or missing tokens end the request with 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.unauthorized(w, "missing bearer token")
			return
		}

		user, err := s.auth.GetByAuthToken(r.Context(), token)
		if err != nil {
			s.logger.Error("Failed to resolve auth token", zap.Error(err))
			s.respondError(w, r, err)
			return
		}

		if user == nil {
			s.unauthorized(w, "invalid bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func (s *Server) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errorEnvelope{Error: message}); err != nil {
		s.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// currentUser returns the account the auth middleware stored. Handlers only
// run behind the middleware, so a missing account is a programming error.
func currentUser(r *http.Request) *model.User {
	return r.Context().Value(contextUserKey).(*model.User)
}
