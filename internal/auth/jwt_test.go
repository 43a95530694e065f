package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "records-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	// Generate token
	token, err := manager.GenerateAccessToken(userID, "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	// Validate token
	validatedID, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != userID {
		t.Errorf("expected userID %s, got %s", userID, validatedID)
	}
	if role != "staff" {
		t.Errorf("expected role 'staff', got %q", role)
	}
}

func TestJWTManager_GenerateAndValidate_AdminRole(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "records-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if role != "admin" {
		t.Errorf("expected role 'admin', got %q", role)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "records-test"
	ttl := -1 * time.Hour // Already expired

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	// Should fail validation due to expiry
	_, _, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	secret1 := "test-secret-at-least-32-chars-long-for-security"
	secret2 := "different-secret-32-chars-long-for-security!!"
	issuer := "records-test"
	ttl := 15 * time.Minute

	manager1 := NewJWTManager(secret1, issuer, ttl)
	manager2 := NewJWTManager(secret2, issuer, ttl)
	userID := uuid.New()

	// Generate with manager1
	token, err := manager1.GenerateAccessToken(userID, "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	// Validate with manager2 must fail
	if _, _, err := manager2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	ttl := 15 * time.Minute

	issuerA := NewJWTManager(secret, "records-a", ttl)
	issuerB := NewJWTManager(secret, "records-b", ttl)

	token, err := issuerA.GenerateAccessToken(uuid.New(), "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, _, err := issuerB.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for token from a different issuer")
	}
}

func TestJWTManager_ValidateAccessToken_Empty(t *testing.T) {
	manager := NewJWTManager("test-secret-at-least-32-chars-long-for-security", "records-test", time.Minute)

	if _, _, err := manager.ValidateAccessToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-passw0rd" {
		t.Fatal("hash must not equal the password")
	}

	if !CheckPassword(hash, "s3cret-passw0rd") {
		t.Error("correct password must verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password must not verify")
	}
}
