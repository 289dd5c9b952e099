package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nkarpovich/duet-backend/internal/domain/enums"
	"github.com/nkarpovich/duet-backend/internal/domain/model"
	"github.com/nkarpovich/duet-backend/internal/pkg/validate"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const (
	signedURLTTL = 5 * time.Minute

	minAge = 18
	maxAge = 100

	maxBioLen     = 1000
	maxHeightCM   = 250
	maxListValues = 20
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	UpdateCore(ctx context.Context, userID int64, name string, age int, gender, bio string) error
	GetDetails(ctx context.Context, userID int64) (pgrepo.ProfileDetailsRecord, error)
	UpdateDetails(ctx context.Context, rec pgrepo.ProfileDetailsRecord) error
}

type URLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type CoreInput struct {
	Name   string
	Age    int
	Gender string
	Bio    string
}

type Service struct {
	store  ProfileStore
	signer URLSigner
}

func NewService(store ProfileStore, signer URLSigner) *Service {
	return &Service{store: store, signer: signer}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return s.toProfile(ctx, rec), nil
}

func (s *Service) UpdateCore(ctx context.Context, userID int64, in CoreInput) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}

	if !validate.Required(in.Name) {
		return model.Profile{}, ErrValidation
	}
	name := strings.TrimSpace(in.Name)
	if in.Age < minAge || in.Age > maxAge {
		return model.Profile{}, ErrValidation
	}
	gender, ok := enums.ParseGender(in.Gender)
	if !ok {
		return model.Profile{}, ErrValidation
	}
	bio := strings.TrimSpace(in.Bio)
	if len(bio) > maxBioLen {
		return model.Profile{}, ErrValidation
	}

	if err := s.store.UpdateCore(ctx, userID, name, in.Age, string(gender), bio); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	return s.Get(ctx, userID)
}

func (s *Service) GetDetails(ctx context.Context, userID int64) (model.ProfileDetails, error) {
	if s.store == nil {
		return model.ProfileDetails{}, fmt.Errorf("profile store is nil")
	}
	if userID <= 0 {
		return model.ProfileDetails{}, ErrValidation
	}

	rec, err := s.store.GetDetails(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.ProfileDetails{}, ErrNotFound
		}
		return model.ProfileDetails{}, fmt.Errorf("get profile details: %w", err)
	}

	return toDetails(rec), nil
}

func (s *Service) UpdateDetails(ctx context.Context, userID int64, in model.ProfileDetails) (model.ProfileDetails, error) {
	if s.store == nil {
		return model.ProfileDetails{}, fmt.Errorf("profile store is nil")
	}
	if userID <= 0 {
		return model.ProfileDetails{}, ErrValidation
	}
	if in.HeightCM < 0 || in.HeightCM > maxHeightCM {
		return model.ProfileDetails{}, ErrValidation
	}
	if len(in.Interests) > maxListValues || len(in.Languages) > maxListValues {
		return model.ProfileDetails{}, ErrValidation
	}

	rec := pgrepo.ProfileDetailsRecord{
		UserID:     userID,
		Occupation: strings.TrimSpace(in.Occupation),
		Education:  strings.TrimSpace(in.Education),
		HeightCM:   in.HeightCM,
		Smoking:    strings.TrimSpace(in.Smoking),
		Drinking:   strings.TrimSpace(in.Drinking),
		LookingFor: strings.TrimSpace(in.LookingFor),
		Interests:  trimList(in.Interests),
		Languages:  trimList(in.Languages),
	}

	if err := s.store.UpdateDetails(ctx, rec); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.ProfileDetails{}, ErrNotFound
		}
		return model.ProfileDetails{}, fmt.Errorf("update profile details: %w", err)
	}

	return s.GetDetails(ctx, userID)
}

func (s *Service) toProfile(ctx context.Context, rec pgrepo.ProfileRecord) model.Profile {
	profile := model.Profile{
		UserID:    rec.UserID,
		Name:      rec.Name,
		Age:       rec.Age,
		Gender:    rec.Gender,
		Bio:       rec.Bio,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}

	if rec.AvatarKey != "" && s.signer != nil {
		if url, err := s.signer.PresignGet(ctx, rec.AvatarKey, signedURLTTL); err == nil {
			profile.AvatarURL = url
		}
	}

	return profile
}

func toDetails(rec pgrepo.ProfileDetailsRecord) model.ProfileDetails {
	return model.ProfileDetails{
		UserID:     rec.UserID,
		Occupation: rec.Occupation,
		Education:  rec.Education,
		HeightCM:   rec.HeightCM,
		Smoking:    rec.Smoking,
		Drinking:   rec.Drinking,
		LookingFor: rec.LookingFor,
		Interests:  rec.Interests,
		Languages:  rec.Languages,
	}
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
