package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/staylist/staylist-backend/internal/util"
)

func newAuthServiceForTest(store *memoryStore) *AuthService {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(&memoryUserRepo{store}, jwt, "")
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthServiceForTest(store)

	result, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if result.Token == "" {
		t.Fatalf("missing session token")
	}

	login, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatalf("login resolved a different user")
	}

	if _, err := svc.Login(context.Background(), "ada@example.com", "wrong horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should report invalid credentials, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthServiceForTest(newMemoryStore())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: " ",
		LastName:  "",
		Email:     "not-an-email",
		Password:  "short",
	})
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for field, want := range map[string]string{
		"firstName": "First name is required",
		"lastName":  "Last name is required",
		"email":     "Invalid email",
		"password":  "Password must be 8 characters or more",
	} {
		if verr.Fields[field] != want {
			t.Fatalf("field %s: got %q, want %q", field, verr.Fields[field], want)
		}
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newAuthServiceForTest(newMemoryStore())

	input := RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "correct horse"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthServiceForTest(store)

	result, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("token resolved wrong user")
	}

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// A token signed with a different secret must be rejected.
	otherJWT := util.NewJWTManager("other-secret", time.Hour)
	forged, _, err := otherJWT.Generate(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("forged token accepted: %v", err)
	}
}

func TestAuthService_AuthenticateDeletedUser(t *testing.T) {
	store := newMemoryStore()
	svc := newAuthServiceForTest(store)

	result, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	delete(store.users, result.User.ID)
	if _, err := svc.Authenticate(context.Background(), result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token for deleted user accepted: %v", err)
	}
}
