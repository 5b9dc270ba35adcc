package service

import (
	"testing"

	"exam-service/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	token, err := svc.GenerateToken("user1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != "user1" {
		t.Errorf("userId = %q, want user1", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
	if claims.Issuer != "exam-service" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).GenerateToken("user1", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTService("secret-b", 1).VerifyToken(token); err == nil {
		t.Error("expected verification failure with the wrong secret")
	}
}

func TestJWTExpiredToken(t *testing.T) {
	token, err := NewJWTService("test-secret", -1).GenerateToken("user1", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewJWTService("test-secret", 1).VerifyToken(token); err == nil {
		t.Error("expected verification failure for expired token")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	if _, err := NewJWTService("test-secret", 1).VerifyToken("not.a.token"); err == nil {
		t.Error("expected verification failure for malformed token")
	}
}
