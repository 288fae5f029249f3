package domain

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("expiry not decoded")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	if Expired(signedToken(t, now.Add(time.Hour)), now) {
		t.Error("future token reported expired")
	}
	if !Expired(signedToken(t, now.Add(-time.Minute)), now) {
		t.Error("past token not reported expired")
	}
	// Unreadable tokens are left for the server to judge.
	if Expired("not-a-jwt", now) {
		t.Error("garbage token must not be treated as expired")
	}
}
