package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID    int64
	Name      string
	Age       int
	Gender    string
	Bio       string
	AvatarKey string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProfileDetailsRecord struct {
	UserID     int64
	Occupation string
	Education  string
	HeightCM   int
	Smoking    string
	Drinking   string
	LookingFor string
	Interests  []string
	Languages  []string
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// CreateTx inserts the profile and its empty details row inside the
// registration transaction.
func (r *ProfileRepo) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, name string, age int, gender string) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO profiles (user_id, name, age, gender, bio, avatar_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, '', '', NOW(), NOW())
`, userID, name, age, gender); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO profile_details (user_id, occupation, education, height_cm, smoking, drinking, looking_for, interests, languages)
VALUES ($1, '', '', 0, '', '', '', '{}', '{}')
`, userID); err != nil {
		return fmt.Errorf("insert profile details: %w", err)
	}

	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, name, age, gender, bio, avatar_key, created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&rec.UserID,
		&rec.Name,
		&rec.Age,
		&rec.Gender,
		&rec.Bio,
		&rec.AvatarKey,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) UpdateCore(ctx context.Context, userID int64, name string, age int, gender, bio string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET name = $2, age = $3, gender = $4, bio = $5, updated_at = NOW()
WHERE user_id = $1
`, userID, name, age, gender, bio)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *ProfileRepo) GetDetails(ctx context.Context, userID int64) (ProfileDetailsRecord, error) {
	if r.pool == nil {
		return ProfileDetailsRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileDetailsRecord{}, fmt.Errorf("invalid user id")
	}

	var rec ProfileDetailsRecord
	err := r.pool.QueryRow(ctx, `
SELECT user_id, occupation, education, height_cm, smoking, drinking, looking_for, interests, languages
FROM profile_details
WHERE user_id = $1
`, userID).Scan(
		&rec.UserID,
		&rec.Occupation,
		&rec.Education,
		&rec.HeightCM,
		&rec.Smoking,
		&rec.Drinking,
		&rec.LookingFor,
		&rec.Interests,
		&rec.Languages,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileDetailsRecord{}, ErrProfileNotFound
		}
		return ProfileDetailsRecord{}, fmt.Errorf("get profile details: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) UpdateDetails(ctx context.Context, rec ProfileDetailsRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if rec.UserID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profile_details
SET occupation = $2,
	education = $3,
	height_cm = $4,
	smoking = $5,
	drinking = $6,
	looking_for = $7,
	interests = $8,
	languages = $9
WHERE user_id = $1
`, rec.UserID,
		rec.Occupation,
		rec.Education,
		rec.HeightCM,
		rec.Smoking,
		rec.Drinking,
		rec.LookingFor,
		rec.Interests,
		rec.Languages,
	)
	if err != nil {
		return fmt.Errorf("update profile details: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *ProfileRepo) SetAvatarKey(ctx context.Context, userID int64, objectKey string) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id")
	}

	var previous string
	err := r.pool.QueryRow(ctx, `
UPDATE profiles p
SET avatar_key = $2, updated_at = NOW()
FROM (SELECT avatar_key FROM profiles WHERE user_id = $1) old
WHERE p.user_id = $1
RETURNING old.avatar_key
`, userID, objectKey).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("set avatar key: %w", err)
	}

	return previous, nil
}
