package auth

import (
	"errors"
	"testing"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret")

	signed, err := tokens.Generate("off1", "asha", RoleAdmin)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.OfficerID != "off1" {
		t.Errorf("officerID = %q, want %q", claims.OfficerID, "off1")
	}
	if claims.Username != "asha" {
		t.Errorf("username = %q, want %q", claims.Username, "asha")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestTokensWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a").Generate("off1", "asha", RoleOfficer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = NewTokens("secret-b").Parse(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensGarbageInput(t *testing.T) {
	tokens := NewTokens("test-secret")
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Parse(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidToken", input, err)
		}
	}
}
