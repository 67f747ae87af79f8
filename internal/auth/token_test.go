package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService([]byte("test-secret"), 24*time.Hour, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService([]byte("  "), time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestNewTokenServiceDefaultsTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewTokenService([]byte("secret"), 0, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	_, expiresAt, err := svc.Issue(1, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got := expiresAt.Sub(now); got != DefaultTokenTTL {
		t.Fatalf("expected default ttl, got %s", got)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, expiresAt, err := svc.Issue(42, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(clock.now.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry: %s", expiresAt)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	svc := newTestTokenService(t, clock)

	token, _, err := svc.Issue(7, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.now = issuedAt.Add(23*time.Hour + 59*time.Minute)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("expected token valid before expiry: %v", err)
	}

	clock.now = issuedAt.Add(24*time.Hour + time.Minute)
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expiry to be an invalid token error, got %v", err)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestTokenService(t, clock)

	token, _, err := svc.Issue(1, "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	other, err := NewTokenService([]byte("other-secret"), time.Hour, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	token, _, err := other.Issue(1, "mallory")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = newTestTokenService(t, clock).Verify(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsOtherSigningMethods(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestTokenService(t, clock).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{now: time.Now()})

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
