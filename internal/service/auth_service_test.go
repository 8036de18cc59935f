package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wordscapes/internal/database"
	"wordscapes/internal/repository"
)

func setupAuthService(t *testing.T, sessionDuration time.Duration) *AuthService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewAuthService(repository.NewUserRepository(db), sessionDuration)
}

func TestRegisterValidation(t *testing.T) {
	svc := setupAuthService(t, time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  bool
	}{
		{"valid registration", "player@example.com", "secret-pass-123", "Player", false},
		{"bad email", "not-an-email", "secret-pass-123", "Player", true},
		{"short password", "other@example.com", "short", "Player", true},
		{"missing name", "other@example.com", "secret-pass-123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.email, tt.password, tt.userName)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// Re-registering the same email conflicts
	if _, err := svc.Register("player@example.com", "secret-pass-123", "Other"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginAndValidateSession(t *testing.T) {
	svc := setupAuthService(t, time.Hour)

	registered, err := svc.Register("player@example.com", "secret-pass-123", "Player")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := svc.Login("player@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "secret-pass-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	session, user, err := svc.Login("player@example.com", "secret-pass-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user ID = %d, want %d", user.ID, registered.ID)
	}

	validated, err := svc.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if validated.ID != registered.ID {
		t.Errorf("validated user ID = %d, want %d", validated.ID, registered.ID)
	}

	if err := svc.Logout(session.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.ValidateSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("post-logout: err = %v, want ErrSessionNotFound", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	svc := setupAuthService(t, -time.Minute)

	if _, err := svc.Register("player@example.com", "secret-pass-123", "Player"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	session, _, err := svc.Login("player@example.com", "secret-pass-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.ValidateSession(session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}

	// The expired session row was deleted on rejection
	if _, err := svc.ValidateSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second check: err = %v, want ErrSessionNotFound", err)
	}
}
