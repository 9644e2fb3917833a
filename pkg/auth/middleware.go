package auth

import (
	"net/http"

	"parkspot/pkg/logger"
)

// Identity headers set by the gateway after session validation. The service
// trusts them as given; session protocol design lives upstream.
const (
	HeaderPrincipalID   = "X-Principal-Id"
	HeaderPrincipalRole = "X-Principal-Role"
	HeaderGuardSpotID   = "X-Guard-Spot-Id"
)

// Identity extracts the principal from gateway headers and stores it on the
// request context. Requests without a principal are rejected before they
// reach any handler.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderPrincipalID)
			role := r.Header.Get(HeaderPrincipalRole)

			if id == "" || !validRole(role) {
				log.Warn("Request rejected without valid identity",
					"path", r.URL.Path,
					"role", role,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Missing or invalid identity"}`))
				return
			}

			p := Principal{
				ID:     id,
				Role:   role,
				SpotID: r.Header.Get(HeaderGuardSpotID),
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func validRole(role string) bool {
	switch role {
	case RoleUser, RoleGuard, RoleAdmin:
		return true
	}
	return false
}
