package jwt

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := NewJWTService()

	userID := uuid.New().String()
	token := service.GenerateTokenUser(userID, "user")
	if token == "" {
		t.Fatal("GenerateTokenUser() returned an empty token")
	}

	parsed, err := service.ValidateTokenUser(token)
	if err != nil {
		t.Fatalf("ValidateTokenUser() error = %v", err)
	}
	if !parsed.Valid {
		t.Error("token reported invalid")
	}

	gotID, gotRole, err := service.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("GetUserIDByToken() error = %v", err)
	}
	if gotID != userID {
		t.Errorf("user id = %q, want %q", gotID, userID)
	}
	if gotRole != "user" {
		t.Errorf("role = %q, want user", gotRole)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := NewJWTService().GenerateTokenUser(uuid.New().String(), "user")

	t.Setenv("JWT_SECRET", "another-secret")
	if _, err := NewJWTService().ValidateTokenUser(token); err == nil {
		t.Error("ValidateTokenUser() accepted a token signed with a different secret")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := NewJWTService().ValidateTokenUser("not.a.token"); err == nil {
		t.Error("ValidateTokenUser() accepted garbage input")
	}
}
