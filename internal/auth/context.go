package auth

import "context"

// ctxKey is unexported so only this package can place claims in a
// context.
type ctxKey int

const claimsKey ctxKey = 0

// WithClaims returns a context carrying the verified claims of the
// request's bearer token. The auth middleware calls this once per
// authenticated request.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims attached to the
// context, or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// DeviceIDFromContext returns the authenticated device identifier, or
// "" when the request was not authenticated. Handlers that only need
// the identity use this instead of unpacking claims.
func DeviceIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.DeviceID
	}
	return ""
}
