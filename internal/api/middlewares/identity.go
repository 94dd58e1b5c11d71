package middlewares

import (
	"context"
	"net/http"
	"strings"
)

type identityContextKey string

// CallerIdentityKey holds the caller identity supplied by the upstream
// identity provider. The ledger only ever compares identities for equality;
// authentication itself happens before requests reach this service.
const CallerIdentityKey = identityContextKey("callerIdentity")

const callerIdentityHeader = "X-Caller-Id"

func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := strings.TrimSpace(r.Header.Get(callerIdentityHeader))
		if identity != "" {
			ctx := context.WithValue(r.Context(), CallerIdentityKey, identity)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// CallerIdentity returns the identity attached to the request, or an empty
// string when the upstream provider supplied none.
func CallerIdentity(r *http.Request) string {
	identity, _ := r.Context().Value(CallerIdentityKey).(string)
	return identity
}
