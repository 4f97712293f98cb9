package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// SessionChecker reports whether the session behind a token is still live.
type SessionChecker interface {
	Live(ctx context.Context, jti string) bool
}

// JWTAuth accepts a bearer token whose session is live and whose role is
// present. It does not enforce any particular role.
func JWTAuth(issuer *Issuer, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				deny(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")
			claims, err := issuer.Verify(raw)
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if claims.Role == "" {
				deny(w, http.StatusUnauthorized, "token carries no role")
				return
			}
			if claims.JWTID == "" || !sessions.Live(r.Context(), claims.JWTID) {
				deny(w, http.StatusUnauthorized, "session expired/revoked")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).HasRole(role) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
