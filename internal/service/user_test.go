package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/model"
)

func newTestUserService(t *testing.T) (*UserService, *AuthService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	authSvc := NewAuthService(users, sessions, nil, discardLogger())
	userSvc := NewUserService(users, discardLogger())
	return userSvc, authSvc, users
}

func registerUser(t *testing.T, authSvc *AuthService, username string) *model.User {
	t.Helper()
	user, err := authSvc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "a-decent-password",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	user, err := userSvc.Profile(ctx, registered.ID)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %s", user.Username)
	}

	if _, err := userSvc.Profile(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_Email(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	newEmail := "new@example.com"
	user, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: registered.ID,
		Email:  &newEmail,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Email != newEmail {
		t.Errorf("expected email %s, got %s", newEmail, user.Email)
	}
	if !user.UpdatedAt.After(registered.UpdatedAt) {
		t.Error("UpdatedAt should advance on change")
	}
}

func TestUserService_UpdateProfile_Password(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	newPassword := "a-brand-new-password"
	user, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   registered.ID,
		Password: &newPassword,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	match, err := auth.VerifyPassword(newPassword, user.PasswordHash)
	if err != nil || !match {
		t.Error("new password should verify against the stored hash")
	}

	// Old password must no longer work
	if _, _, err := authSvc.Login(ctx, LoginInput{
		Identifier: "alice",
		Password:   "a-decent-password",
	}); !errors.Is(err, ErrIncorrectCredentials) {
		t.Errorf("old password should be rejected, got %v", err)
	}

	if _, _, err := authSvc.Login(ctx, LoginInput{
		Identifier: "alice",
		Password:   newPassword,
	}); err != nil {
		t.Errorf("new password should be accepted, got %v", err)
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	badEmail := "not-an-email"
	if _, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: registered.ID,
		Email:  &badEmail,
	}); !errors.Is(err, model.ErrEmailInvalid) {
		t.Errorf("expected ErrEmailInvalid, got %v", err)
	}

	shortPassword := "short"
	if _, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   registered.ID,
		Password: &shortPassword,
	}); !errors.Is(err, model.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	alice := registerUser(t, authSvc, "alice")
	registerUser(t, authSvc, "bob")

	taken := "bob@example.com"
	if _, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: alice.ID,
		Email:  &taken,
	}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_UpdateProfile_NoChanges(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	// Same email and nil password is a no-op
	sameEmail := registered.Email
	user, err := userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: registered.ID,
		Email:  &sameEmail,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if !user.UpdatedAt.Equal(registered.UpdatedAt) {
		t.Error("no-op update should not touch UpdatedAt")
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	if err := userSvc.DeleteAccount(ctx, registered.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if _, err := userSvc.Profile(ctx, registered.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}

	if err := userSvc.DeleteAccount(ctx, registered.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("double delete should return ErrUserNotFound, got %v", err)
	}
}

func TestUserService_RecentEvents(t *testing.T) {
	t.Parallel()

	userSvc, authSvc, _ := newTestUserService(t)
	ctx := context.Background()

	registered := registerUser(t, authSvc, "alice")

	for i := 0; i < 3; i++ {
		if _, _, err := authSvc.Login(ctx, LoginInput{
			Identifier: "alice",
			Password:   "a-decent-password",
		}); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
	}

	events, err := userSvc.RecentEvents(ctx, registered.ID, 2)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, event := range events {
		if event.EventType != model.AuthEventLogin {
			t.Errorf("newest events should be logins, got %s", event.EventType)
		}
	}
}
