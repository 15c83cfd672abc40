package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "unit-test-signing-secret-32-bytes!!"

func TestEncodeAndDecode(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	token, issued, err := codec.Encode("dev-kitchen-tablet", 0)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if token == "" {
		t.Fatal("Encode() returned empty token")
	}
	if !IsValidFormat(token) {
		t.Errorf("Encode() produced structurally invalid token %q", token)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if claims.DeviceID != "dev-kitchen-tablet" {
		t.Errorf("DeviceID = %q, want %q", claims.DeviceID, "dev-kitchen-tablet")
	}
	if !claims.IssuedAt.Time.Equal(issued.IssuedAt.Time.Truncate(time.Second)) {
		t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt.Time, issued.IssuedAt.Time)
	}
	if got, want := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time), time.Hour; got != want {
		t.Errorf("token lifetime = %v, want %v", got, want)
	}
}

func TestEncode_DistinctDevices(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	a, _, err := codec.Encode("dev-a", 0)
	if err != nil {
		t.Fatalf("Encode(dev-a) error = %v", err)
	}
	b, _, err := codec.Encode("dev-b", 0)
	if err != nil {
		t.Fatalf("Encode(dev-b) error = %v", err)
	}
	if a == b {
		t.Error("tokens for different devices should differ")
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	token, _, err := NewCodec(testSecret, time.Hour).Encode("dev-a", 0)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	_, err = NewCodec("a-completely-different-secret-key!!", time.Hour).Decode(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Decode() with wrong secret: error = %v, want ErrTokenInvalid", err)
	}
}

func TestDecode_Expired(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	// Negative TTL signs a token whose expiry is already in the past.
	token, _, err := codec.Encode("dev-a", -time.Minute)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	_, err = codec.Decode(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Decode() of expired token: error = %v, want ErrTokenExpired", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "not.a.jwt"} {
		if _, err := codec.Decode(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Decode(%q): error = %v, want ErrTokenMalformed", token, err)
		}
	}
}

func TestDecode_TamperedSignature(t *testing.T) {
	codec := NewCodec(testSecret, time.Hour)

	token, _, err := codec.Encode("dev-a", 0)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := codec.Decode(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Decode() of tampered token: error = %v, want ErrTokenInvalid", err)
	}
}

func TestCodec_MissingSecret(t *testing.T) {
	codec := NewCodec("", time.Hour)

	if _, _, err := codec.Encode("dev-a", 0); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Encode() with empty secret: error = %v, want ErrMissingSecret", err)
	}
	if _, err := codec.Decode("a.b.c"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Decode() with empty secret: error = %v, want ErrMissingSecret", err)
	}
}

func TestEncode_EmptyDeviceID(t *testing.T) {
	_, _, err := NewCodec(testSecret, time.Hour).Encode("", 0)
	if !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("Encode(\"\") error = %v, want ErrInvalidDeviceID", err)
	}
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	codec := NewCodec(testSecret, 0)
	if codec.TTL() != time.Hour {
		t.Errorf("TTL() = %v, want 1h default", codec.TTL())
	}

	token, _, err := codec.Encode("dev-a", 0)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	expectedExpiry := time.Now().Add(time.Hour)
	diff := claims.ExpiresAt.Time.Sub(expectedExpiry)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("default lifetime should be ~1h, got expiry diff of %v", diff)
	}
}
