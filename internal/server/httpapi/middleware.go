package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fitplan/internal/server/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	identityKey  ctxKey = "identity"
)

// Identity is the authenticated caller, resolved by the auth gate and
// attached to the request context for the protected handlers.
type Identity struct {
	UserID   int64
	Username string
}

// requestID tags every request with an id that shows up in the response
// headers and in every log line emitted for the request.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth is the gate in front of the protected routes. A missing bearer
// token is rejected with 401; a present token failing verification for any
// reason (malformed, bad signature, expired) is rejected with 403 without
// telling the caller which check failed. The split matches what the
// presentation layer already depends on.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "Authentication required.")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		identity := Identity{UserID: claims.UserID, Username: claims.Username}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value, or returns "".
func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
