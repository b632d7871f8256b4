package middleware

import (
	"context"
	"net/http"
	"strings"

	"groupchat-backend/internal/services"
)

type contextKey string

const principalKey contextKey = "principal"

// ExtractBearerToken pulls the token out of an "Authorization: Bearer <t>"
// header value. Returns "" when the header is missing or malformed.
func ExtractBearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token on every request and attaches the
// principal to the request context. On a missing or invalid token the request
// stops here with 401.
func RequireAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"No token provided"}`))
				return
			}

			principal, err := tokens.Verify(token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Invalid token"}`))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the verified principal stored by RequireAuth.
func PrincipalFrom(ctx context.Context) (services.Principal, bool) {
	p, ok := ctx.Value(principalKey).(services.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Used by
// handler tests to simulate an authenticated request.
func WithPrincipal(ctx context.Context, p services.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
