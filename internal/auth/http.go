// ABOUTME: HTTP bearer-token middleware for the LAN read API
// ABOUTME: Extracts the Authorization header and verifies the device token

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// WithDevice stores the authenticated device name on the context.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, contextKey{}, device)
}

// DeviceFromContext returns the authenticated device name, or "" when the
// request was not authenticated.
func DeviceFromContext(ctx context.Context) string {
	device, _ := ctx.Value(contextKey{}).(string)
	return device
}

// extractBearerToken pulls a bearer token out of the Authorization header.
// Returns the token and an error message (empty on success).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware rejects requests without a valid device token and stores the
// device name on the request context for access logging.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				unauthorized(w, errMsg)
				return
			}

			device, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), device)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}
