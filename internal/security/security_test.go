package security

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-pass-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret-pass-123" {
		t.Error("hash should not equal the plaintext password")
	}

	if !CheckPassword("secret-pass-123", hash) {
		t.Error("CheckPassword should accept the correct password")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("CheckPassword should reject a wrong password")
	}
	if CheckPassword("secret-pass-123", "not-a-hash") {
		t.Error("CheckPassword should reject a malformed hash")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("secret-pass-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("secret-pass-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

func TestGenerateSessionID(t *testing.T) {
	first := GenerateSessionID()
	second := GenerateSessionID()
	if first == "" || second == "" {
		t.Fatal("session IDs should not be empty")
	}
	if first == second {
		t.Error("session IDs should be unique")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit should be denied")
	}

	// Separate IPs get separate buckets
	if !rl.Allow("10.0.0.2") {
		t.Error("a different IP should have its own budget")
	}
}

func TestCSRFTokens(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}

	if !gen.ValidateToken("session-1", token) {
		t.Error("token should validate for its own session")
	}
	if gen.ValidateToken("session-2", token) {
		t.Error("token should not validate for another session")
	}
	if gen.ValidateToken("session-1", "deadbeef") {
		t.Error("a forged token should not validate")
	}

	// Deterministic per session, so no server-side token state is needed
	again, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if again != token {
		t.Error("tokens for the same session should be stable")
	}

	// A different secret produces different tokens
	other, err := NewCSRFGenerator("other-secret").GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if other == token {
		t.Error("tokens should depend on the secret")
	}

	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("empty session ID should be rejected")
	}
}
