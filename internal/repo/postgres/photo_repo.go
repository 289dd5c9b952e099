package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

type PhotoRecord struct {
	ID        int64
	UserID    int64
	ObjectKey string
	Position  int
	CreatedAt time.Time
	DeletedAt *time.Time
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, userID int64, objectKey string) (PhotoRecord, error) {
	if r.pool == nil {
		return PhotoRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || objectKey == "" {
		return PhotoRecord{}, fmt.Errorf("invalid photo payload")
	}

	var rec PhotoRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO photos (user_id, object_key, position, created_at)
VALUES (
	$1,
	$2,
	COALESCE((SELECT MAX(position) FROM photos WHERE user_id = $1 AND deleted_at IS NULL), 0) + 1,
	NOW()
)
RETURNING id, user_id, object_key, position, created_at
`, userID, objectKey).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ObjectKey,
		&rec.Position,
		&rec.CreatedAt,
	)
	if err != nil {
		return PhotoRecord{}, fmt.Errorf("insert photo: %w", err)
	}

	return rec, nil
}

func (r *PhotoRepo) ListActive(ctx context.Context, userID int64) ([]PhotoRecord, error) {
	if r.pool == nil {
		return []PhotoRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, position, created_at
FROM photos
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY position ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]PhotoRecord, 0)
	for rows.Next() {
		var rec PhotoRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ObjectKey, &rec.Position, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

// SoftDelete hides the photo from listings; the object itself stays in
// storage until the retention sweep removes it.
func (r *PhotoRepo) SoftDelete(ctx context.Context, userID, photoID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || photoID <= 0 {
		return fmt.Errorf("invalid photo lookup payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE photos
SET deleted_at = NOW()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
`, photoID, userID)
	if err != nil {
		return fmt.Errorf("soft delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

// ListPurgeable returns soft-deleted photos whose retention window expired.
func (r *PhotoRepo) ListPurgeable(ctx context.Context, cutoff time.Time, limit int) ([]PhotoRecord, error) {
	if r.pool == nil {
		return []PhotoRecord{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, object_key, position, created_at, deleted_at
FROM photos
WHERE deleted_at IS NOT NULL AND deleted_at < $1
ORDER BY deleted_at ASC
LIMIT $2
`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list purgeable photos: %w", err)
	}
	defer rows.Close()

	items := make([]PhotoRecord, 0, limit)
	for rows.Next() {
		var rec PhotoRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ObjectKey, &rec.Position, &rec.CreatedAt, &rec.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan purgeable photo: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate purgeable photos: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) HardDelete(ctx context.Context, photoID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if photoID <= 0 {
		return fmt.Errorf("invalid photo id")
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM photos
WHERE id = $1
`, photoID); err != nil {
		return fmt.Errorf("hard delete photo: %w", err)
	}

	return nil
}
