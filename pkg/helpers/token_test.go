package helpers

import (
	"testing"
	"time"
)

func newTestTokens() *TokenManager {
	return NewTokenManager("session-secret", "reset-secret", 30*time.Minute)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestTokens()

	token, exp, err := m.IssueSession(42, "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	id, sid, err := m.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if id != 42 || sid != "sid-1" {
		t.Fatalf("got id=%d sid=%q", id, sid)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	m := newTestTokens()
	token, _, err := m.IssueSession(42, "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	other := NewTokenManager("different-secret", "reset-secret", 30*time.Minute)
	if _, _, err := other.ParseSession(token); err == nil {
		t.Fatal("token verified under a different secret")
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	m := newTestTokens()

	token, err := m.IssueReset(7, 0)
	if err != nil {
		t.Fatalf("IssueReset: %v", err)
	}
	if got := m.VerifyReset(token); got != 7 {
		t.Fatalf("VerifyReset = %d, want 7", got)
	}
}

func TestResetTokenExpired(t *testing.T) {
	m := newTestTokens()

	token, err := m.IssueReset(7, -time.Second)
	if err != nil {
		t.Fatalf("IssueReset: %v", err)
	}
	if got := m.VerifyReset(token); got != 0 {
		t.Fatalf("expired token verified as %d", got)
	}
}

func TestResetTokenTampered(t *testing.T) {
	m := newTestTokens()

	token, err := m.IssueReset(7, 0)
	if err != nil {
		t.Fatalf("IssueReset: %v", err)
	}

	// Flip one character in the signature.
	b := []byte(token)
	last := len(b) - 1
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}
	if got := m.VerifyReset(string(b)); got != 0 {
		t.Fatalf("tampered token verified as %d", got)
	}
}

func TestResetTokenNotValidAsSession(t *testing.T) {
	m := newTestTokens()

	token, err := m.IssueReset(7, 0)
	if err != nil {
		t.Fatalf("IssueReset: %v", err)
	}
	if _, _, err := m.ParseSession(token); err == nil {
		t.Fatal("reset token accepted as a session token")
	}
}

func TestVerifyResetGarbage(t *testing.T) {
	m := newTestTokens()
	if got := m.VerifyReset("not-a-token"); got != 0 {
		t.Fatalf("garbage verified as %d", got)
	}
	if got := m.VerifyReset(""); got != 0 {
		t.Fatalf("empty token verified as %d", got)
	}
}
