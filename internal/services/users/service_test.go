package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	userssvc "github.com/nkarpovich/duet-backend/internal/services/users"
)

type stubUserStore struct {
	byEmail map[string]pgrepo.UserRecord
	byID    map[int64]pgrepo.UserRecord
}

func (s *stubUserStore) CreateTx(_ context.Context, _ pgx.Tx, email, passwordHash, role string) (pgrepo.UserRecord, error) {
	return pgrepo.UserRecord{ID: 1, Email: email, PasswordHash: passwordHash, Role: role}, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := s.byID[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

type stubProfileStore struct{}

func (s *stubProfileStore) CreateTx(_ context.Context, _ pgx.Tx, _ int64, _ string, _ int, _ string) error {
	return nil
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := userssvc.NewService(nil, &stubUserStore{}, &stubProfileStore{})

	cases := []struct {
		name  string
		input userssvc.RegisterInput
	}{
		{"bad email", userssvc.RegisterInput{Email: "not-an-email", Password: "secret-pass", Name: "Ann", Age: 25, Gender: "female"}},
		{"short password", userssvc.RegisterInput{Email: "ann@example.com", Password: "short", Name: "Ann", Age: 25, Gender: "female"}},
		{"empty name", userssvc.RegisterInput{Email: "ann@example.com", Password: "secret-pass", Name: "  ", Age: 25, Gender: "female"}},
		{"underage", userssvc.RegisterInput{Email: "ann@example.com", Password: "secret-pass", Name: "Ann", Age: 17, Gender: "female"}},
		{"unknown gender", userssvc.RegisterInput{Email: "ann@example.com", Password: "secret-pass", Name: "Ann", Age: 25, Gender: "robot"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, userssvc.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &stubUserStore{
		byEmail: map[string]pgrepo.UserRecord{
			"ann@example.com": {ID: 7, Email: "ann@example.com", PasswordHash: string(hash), Role: "user"},
		},
	}
	svc := userssvc.NewService(nil, store, &stubProfileStore{})

	account, err := svc.Authenticate(context.Background(), "  Ann@Example.com ", "secret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if account.ID != 7 {
		t.Fatalf("expected user 7, got %d", account.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "ann@example.com", "wrong-pass"); !errors.Is(err, userssvc.ErrInvalidCredentials) {
		t.Fatalf("wrong password should be invalid credentials, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "secret-pass"); !errors.Is(err, userssvc.ErrInvalidCredentials) {
		t.Fatalf("unknown email should be invalid credentials, got %v", err)
	}
}
