package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer(testSecret)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	sealed, err := s.Seal(Credential("tok-123"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if strings.Contains(sealed, "tok-123") {
		t.Fatalf("sealed value leaks the token: %q", sealed)
	}
	got, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("Open = %q, want tok-123", got)
	}
}

func TestSealerRejectsForeignKeyAndGarbage(t *testing.T) {
	a, _ := NewSealer(testSecret)
	b, _ := NewSealer(strings.Repeat("z", 40))
	sealed, err := a.Seal(Credential("tok"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := b.Open(sealed); !errors.Is(err, ErrInvalidSeal) {
		t.Fatalf("foreign key Open err = %v, want ErrInvalidSeal", err)
	}
	for _, raw := range []string{"", "not base64!", "AAAA"} {
		if _, err := a.Open(raw); !errors.Is(err, ErrInvalidSeal) {
			t.Fatalf("Open(%q) err = %v, want ErrInvalidSeal", raw, err)
		}
	}
}

func TestNewSealerRequiresLongSecret(t *testing.T) {
	if _, err := NewSealer("short"); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestInspectClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "42",
		"username": "root",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("whatever"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims := InspectClaims(Credential(signed))
	if claims.Subject != "42" || claims.Username != "root" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.DisplayName() != "root" {
		t.Fatalf("DisplayName = %q", claims.DisplayName())
	}

	if got := InspectClaims(Credential("opaque-token")); got != (Claims{}) {
		t.Fatalf("opaque token claims = %+v, want empty", got)
	}
}

func TestCredential(t *testing.T) {
	c := NewCredential(`  "abc"  `)
	if c != "abc" {
		t.Fatalf("NewCredential = %q", c)
	}
	if c.BearerHeader() != "Bearer abc" {
		t.Fatalf("BearerHeader = %q", c.BearerHeader())
	}
	if Credential("").Present() || Credential("").BearerHeader() != "" {
		t.Fatal("empty credential should be absent")
	}
}
