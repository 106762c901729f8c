package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey struct{}

var (
	errMissingToken = errors.New("missing authorization header")
	errTokenScheme  = errors.New("invalid authorization format")
)

// Authenticate returns the ID of the client a request acts for. The token
// comes from a Bearer Authorization header. When fromQuery is set a token
// query parameter is accepted too, since browsers cannot add headers to a
// websocket upgrade.
func (s *Service) Authenticate(r *http.Request, fromQuery bool) (string, error) {
	token, err := requestToken(r, fromQuery)
	if err != nil {
		return "", err
	}
	return s.ValidateToken(token)
}

func requestToken(r *http.Request, fromQuery bool) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errTokenScheme
		}
		return token, nil
	}
	if fromQuery {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
	}
	return "", errMissingToken
}

// AuthMiddleware rejects requests that carry no valid client token and
// stores the client ID in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, err := s.Authenticate(r, false)
		switch {
		case errors.Is(err, errMissingToken), errors.Is(err, errTokenScheme):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		case err != nil:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}

func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, contextKey{}, clientID)
}

func ClientIDFromContext(ctx context.Context) string {
	clientID, _ := ctx.Value(contextKey{}).(string)
	return clientID
}
