package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkarpovich/duet-backend/internal/domain/enums"
	"github.com/nkarpovich/duet-backend/internal/domain/model"
	"github.com/nkarpovich/duet-backend/internal/pkg/validate"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72

	minAge = 18
	maxAge = 100
)

var (
	ErrValidation         = errors.New("validation error")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

type UserStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, email, passwordHash, role string) (pgrepo.UserRecord, error)
	FindByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type ProfileStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, userID int64, name string, age int, gender string) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Age      int
	Gender   string
}

type Service struct {
	pool     *pgxpool.Pool
	users    UserStore
	profiles ProfileStore
	now      func() time.Time
}

func NewService(pool *pgxpool.Pool, users UserStore, profiles ProfileStore) *Service {
	return &Service{
		pool:     pool,
		users:    users,
		profiles: profiles,
		now:      time.Now,
	}
}

// Register creates the account with its profile and details rows in one
// transaction so a half-created user never becomes visible.
func (s *Service) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	if s.users == nil || s.profiles == nil {
		return model.User{}, fmt.Errorf("users service is not configured")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validate.Email(email) {
		return model.User{}, ErrValidation
	}
	if len(input.Password) < minPasswordLen || len(input.Password) > maxPasswordLen {
		return model.User{}, ErrValidation
	}
	if !validate.Required(input.Name) {
		return model.User{}, ErrValidation
	}
	name := strings.TrimSpace(input.Name)
	if input.Age < minAge || input.Age > maxAge {
		return model.User{}, ErrValidation
	}
	gender, ok := enums.ParseGender(input.Gender)
	if !ok {
		return model.User{}, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	var account model.User
	err = pgrepo.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		user, err := s.users.CreateTx(ctx, tx, email, string(hash), string(enums.RoleUser))
		if err != nil {
			return err
		}
		if err := s.profiles.CreateTx(ctx, tx, user.ID, name, input.Age, string(gender)); err != nil {
			return err
		}
		account = toUser(user)
		return nil
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}

	return account, nil
}

// Authenticate verifies email and password. A missing account and a wrong
// password produce the same error so the response does not leak which
// emails exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	if s.users == nil {
		return model.User{}, fmt.Errorf("users service is not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.User{}, ErrValidation
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.User{}, ErrInvalidCredentials
	}

	return toUser(user), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (model.User, error) {
	if s.users == nil {
		return model.User{}, fmt.Errorf("users service is not configured")
	}
	if userID <= 0 {
		return model.User{}, ErrValidation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}

	return toUser(user), nil
}

func toUser(rec pgrepo.UserRecord) model.User {
	return model.User{
		ID:        rec.ID,
		Email:     rec.Email,
		Role:      rec.Role,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
