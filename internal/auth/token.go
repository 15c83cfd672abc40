package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultTokenTTL applies when the codec is constructed without one.
const defaultTokenTTL = time.Hour

// Codec signs and verifies device tokens. It is stateless and safe for
// concurrent use; construct one at startup and share it.
type Codec struct {
	secret string
	ttl    time.Duration
}

// NewCodec creates a token codec. A non-positive ttl falls back to one
// hour. The secret is validated lazily so a misconfigured deployment
// fails per-operation with ErrMissingSecret rather than at startup.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Codec{secret: secret, ttl: ttl}
}

// TTL returns the codec's default token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode signs a token for the device. A zero ttl uses the codec
// default; a negative ttl produces an already-expired token (useful in
// tests). The returned claims carry the exact timestamps embedded in
// the token.
func (c *Codec) Encode(deviceID string, ttl time.Duration) (string, *Claims, error) {
	if c.secret == "" {
		return "", nil, ErrMissingSecret
	}
	if deviceID == "" {
		return "", nil, ErrInvalidDeviceID
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		DeviceID: deviceID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.secret))
	if err != nil {
		return "", nil, fmt.Errorf("signing device token: %w", err)
	}
	return signed, claims, nil
}

// Decode verifies a token's signature and expiry and returns its
// claims. Every failure maps onto the package's closed error set:
// ErrTokenExpired, ErrTokenMalformed, ErrTokenInvalid, or
// ErrMissingSecret.
//
// Expiry follows golang-jwt's exclusive check: a token is still
// accepted at the exact exp instant and rejected the moment after.
// Session.Expired uses the inclusive boundary, so the registry sweep
// can drop a session one instant before Decode would reject its token.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	if c.secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, mapJWTError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.DeviceID == "" {
		return nil, fmt.Errorf("%w: missing device id", ErrTokenMalformed)
	}
	return claims, nil
}

// mapJWTError collapses golang-jwt's error taxonomy into ours. Expiry
// is checked first: an expired-but-otherwise-valid token must surface
// as expired, not as a generic verification failure.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}
