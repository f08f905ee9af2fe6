package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	TenantKey contextKey = "tenant"

	// PublicTenant is used for every caller when auth is disabled.
	PublicTenant = "public"
)

// APIKeyAuth validates API key from Authorization header. validKeys maps
// tenant -> key; when empty, auth is off and every request runs as
// PublicTenant. Paths in open skip the check.
func APIKeyAuth(validKeys map[string]string, open ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(open))
	for _, p := range open {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(validKeys) == 0 || skip[r.URL.Path] {
				ctx := context.WithValue(r.Context(), TenantKey, PublicTenant)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// constant-time comparison, no early exit
			var tenant string
			for t, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					tenant = t
				}
			}
			if tenant == "" {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}
			if err := ValidateTenantID(tenant); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts tenant from context, PublicTenant if unset
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok && tenant != "" {
		return tenant
	}
	return PublicTenant
}
