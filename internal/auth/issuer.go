package auth

import (
	"strings"
)

// Issuer coordinates token issuance: validate the device identifier,
// sign a token, record the session. It is the only writer of new
// sessions in normal operation.
type Issuer struct {
	codec    *Codec
	registry *Registry
}

// NewIssuer creates an issuer backed by the given codec and registry.
func NewIssuer(codec *Codec, registry *Registry) *Issuer {
	return &Issuer{codec: codec, registry: registry}
}

// Issue creates and registers a token for the device. The identifier
// is trimmed of surrounding whitespace; an empty or whitespace-only
// identifier fails with ErrInvalidDeviceID before any signing or
// registry work happens. On success the device's previous session, if
// any, is superseded.
func (i *Issuer) Issue(deviceID string) (*IssuedToken, error) {
	trimmed := strings.TrimSpace(deviceID)
	if trimmed == "" {
		return nil, ErrInvalidDeviceID
	}

	ttl := i.codec.TTL()
	token, claims, err := i.codec.Encode(trimmed, ttl)
	if err != nil {
		return nil, err
	}

	i.registry.Issue(Session{
		DeviceID:  trimmed,
		Token:     token,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresIn: ttl,
	})

	return &IssuedToken{
		Token:     token,
		DeviceID:  trimmed,
		ExpiresIn: int64(ttl.Seconds()),
		IssuedAt:  claims.IssuedAt.Unix(),
	}, nil
}
