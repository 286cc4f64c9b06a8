package auth

import (
	"errors"
	"testing"
	"time"

	"volunteer-api/models"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	verifier := NewVerifier(testSecret)

	token, err := issuer.Issue(Caller{ID: "u1", Role: models.RoleOrganizer, Email: "o@example.com", FirstName: "Olive"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	caller, err := verifier.VerifyHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("VerifyHeader failed: %v", err)
	}
	if caller.ID != "u1" || caller.Role != models.RoleOrganizer || caller.FirstName != "Olive" {
		t.Errorf("Unexpected caller: %+v", caller)
	}
}

func TestVerifyRejectsBadCredentials(t *testing.T) {
	verifier := NewVerifier(testSecret)

	expired, err := NewIssuer(testSecret, -time.Minute).Issue(Caller{ID: "u1", Role: models.RoleVolunteer})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	wrongKey, err := NewIssuer("other-secret", time.Hour).Issue(Caller{ID: "u1", Role: models.RoleVolunteer})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	badRole, err := NewIssuer(testSecret, time.Hour).Issue(Caller{ID: "u1", Role: "guest"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": wrongKey,
		"bad role":  badRole,
		"garbage":   "not-a-jwt",
	} {
		if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("%s: expected ErrInvalidCredential, got %v", name, err)
		}
	}

	if _, err := verifier.VerifyHeader(""); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, got %v", err)
	}
}

func TestResolveDegradesToAnonymous(t *testing.T) {
	verifier := NewVerifier(testSecret)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer garbage"} {
		if c := verifier.Resolve(header); c != nil {
			t.Errorf("Expected anonymous for %q, got %+v", header, c)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("bearer abc"); !ok || tok != "abc" {
		t.Errorf("Expected abc, got %q (%v)", tok, ok)
	}
	if _, ok := BearerToken("Token abc"); ok {
		t.Error("Expected non-bearer scheme to be rejected")
	}
}
