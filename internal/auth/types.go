package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload for a device token: the device identifier
// plus the registered iat/exp timestamps (Unix seconds on the wire).
type Claims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"deviceId"`
}

// IssuedToken is the result of a successful token issuance, shaped for
// direct serialisation in the issuance response.
type IssuedToken struct {
	Token     string `json:"token"`
	DeviceID  string `json:"deviceId"`
	ExpiresIn int64  `json:"expiresIn"` // seconds until expiry
	IssuedAt  int64  `json:"issuedAt"`  // Unix seconds
}

// Session records the most recent token issued to a device.
type Session struct {
	DeviceID  string        `json:"deviceId"`
	Token     string        `json:"-"` // never serialised
	IssuedAt  time.Time     `json:"issuedAt"`
	ExpiresIn time.Duration `json:"-"`
}

// ExpiresAt returns the instant the session's token expires.
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(s.ExpiresIn)
}

// Expired reports whether the session's token has expired as of now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

// Sentinel errors for auth operations. Decode failures form a closed
// set so callers can switch on errors.Is without inspecting strings.
var (
	ErrInvalidDeviceID   = errors.New("device id must be a non-empty string")
	ErrMissingSecret     = errors.New("signing secret is not configured")
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenInvalid      = errors.New("token verification failed")
)

// ExtractBearer pulls the credential out of an Authorization header
// value. A case-insensitive "Bearer " prefix is stripped; any other
// non-empty header is treated as the raw token itself. The second
// return is false when no credential is present.
func ExtractBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	const prefix = "bearer "
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		token := strings.TrimSpace(header[len(prefix):])
		if token == "" {
			return "", false
		}
		return token, true
	}
	return header, true
}

// BearerCredential is the error-returning form of ExtractBearer, for
// callers that propagate the failure rather than branch on a bool.
func BearerCredential(header string) (string, error) {
	token, ok := ExtractBearer(header)
	if !ok {
		return "", ErrMissingCredential
	}
	return token, nil
}

// IsValidFormat reports whether a credential is structurally a JWT:
// exactly three dot-separated non-empty segments. It is a cheap
// pre-check that rejects garbage before any signature work.
func IsValidFormat(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
