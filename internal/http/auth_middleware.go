package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// TokenVerifier resolves a bearer token to a user id. Keeping this behind an
// interface lets a revocation check slot in later without touching handlers.
type TokenVerifier interface {
	VerifySession(token string) (string, error)
}

type authContextKey string

const contextKeyUserID authContextKey = "zerobet-user-id"

// requireAuth ensures the request carries a valid bearer token before
// invoking the handler, placing the verified subject id in the context.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "No token")
			return
		}
		userID, err := r.verifier.VerifySession(token)
		if err != nil {
			r.logger.Warn("token validation failed", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUserID, userID)
		next(w, req.WithContext(ctx))
	}
}

// userIDFromContext extracts the authenticated user id from the context.
func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	return userID, ok && userID != ""
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
