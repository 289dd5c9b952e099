package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedRepo struct {
	pool *pgxpool.Pool
}

type FeedProfileRecord struct {
	UserID    int64
	Name      string
	Age       int
	Gender    string
	Bio       string
	AvatarKey string
	CreatedAt time.Time
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// ListExplore pages through other users' profiles, newest accounts first.
// With excludeInteracted set, profiles the viewer already acted on are
// filtered out server side.
func (r *FeedRepo) ListExplore(ctx context.Context, viewerID int64, excludeInteracted bool, limit, offset int) ([]FeedProfileRecord, error) {
	if r.pool == nil {
		return []FeedProfileRecord{}, nil
	}
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT p.user_id, p.name, p.age, p.gender, p.bio, p.avatar_key, p.created_at
FROM profiles p
WHERE p.user_id <> $1
ORDER BY p.created_at DESC, p.user_id DESC
LIMIT $2 OFFSET $3
`
	if excludeInteracted {
		query = `
SELECT p.user_id, p.name, p.age, p.gender, p.bio, p.avatar_key, p.created_at
FROM profiles p
WHERE p.user_id <> $1
	AND NOT EXISTS (
		SELECT 1 FROM interactions i
		WHERE i.user_id = $1 AND i.target_user_id = p.user_id
	)
ORDER BY p.created_at DESC, p.user_id DESC
LIMIT $2 OFFSET $3
`
	}

	rows, err := r.pool.Query(ctx, query, viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list explore feed: %w", err)
	}
	defer rows.Close()

	items := make([]FeedProfileRecord, 0, limit)
	for rows.Next() {
		var rec FeedProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.Name,
			&rec.Age,
			&rec.Gender,
			&rec.Bio,
			&rec.AvatarKey,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feed profile: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate feed profiles: %w", rows.Err())
	}

	return items, nil
}
