package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInteractionExists surfaces the (user_id, target_user_id, type) unique
// constraint; a duplicate attempt is a client-visible conflict, never a
// silent success.
var ErrInteractionExists = errors.New("interaction already recorded")

type InteractionRepo struct {
	pool *pgxpool.Pool
}

type InteractionRecord struct {
	ID           int64
	UserID       int64
	TargetUserID int64
	Type         string
	CommentText  *string
	CreatedAt    time.Time
}

type InteractionStats struct {
	LikesReceived    int64
	Matches          int64
	CommentsReceived int64
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) Create(ctx context.Context, userID, targetUserID int64, interactionType string, commentText *string) (InteractionRecord, error) {
	if r.pool == nil {
		return InteractionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || targetUserID <= 0 || interactionType == "" {
		return InteractionRecord{}, fmt.Errorf("invalid interaction payload")
	}

	var rec InteractionRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO interactions (user_id, target_user_id, interaction_type, comment_text, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id, user_id, target_user_id, interaction_type, comment_text, created_at
`, userID, targetUserID, interactionType, commentText).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TargetUserID,
		&rec.Type,
		&rec.CommentText,
		&rec.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return InteractionRecord{}, ErrInteractionExists
		}
		return InteractionRecord{}, fmt.Errorf("insert interaction: %w", err)
	}

	return rec, nil
}

// HasLike reports whether a "like" row exists from one user toward another.
// Drives the reciprocal check of match promotion.
func (r *InteractionRepo) HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if fromUserID <= 0 || toUserID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM interactions
WHERE user_id = $1 AND target_user_id = $2 AND interaction_type = 'like'
LIMIT 1
`, fromUserID, toUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}

// ListBetween returns all interactions exchanged between two users,
// oldest first.
func (r *InteractionRepo) ListBetween(ctx context.Context, userID, otherUserID int64) ([]InteractionRecord, error) {
	if r.pool == nil {
		return []InteractionRecord{}, nil
	}
	if userID <= 0 || otherUserID <= 0 {
		return nil, fmt.Errorf("invalid interaction lookup payload")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, target_user_id, interaction_type, comment_text, created_at
FROM interactions
WHERE (user_id = $1 AND target_user_id = $2)
	OR (user_id = $2 AND target_user_id = $1)
ORDER BY created_at ASC, id ASC
`, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	items := make([]InteractionRecord, 0)
	for rows.Next() {
		var rec InteractionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.TargetUserID,
			&rec.Type,
			&rec.CommentText,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interactions: %w", rows.Err())
	}

	return items, nil
}

func (r *InteractionRepo) CountLikesReceived(ctx context.Context, userID int64) (int64, error) {
	return r.countReceived(ctx, userID, "like")
}

func (r *InteractionRepo) CountCommentsReceived(ctx context.Context, userID int64) (int64, error) {
	return r.countReceived(ctx, userID, "comment")
}

func (r *InteractionRepo) countReceived(ctx context.Context, userID int64, interactionType string) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM interactions
WHERE target_user_id = $1 AND interaction_type = $2
`, userID, interactionType).Scan(&count); err != nil {
		return 0, fmt.Errorf("count received %s interactions: %w", interactionType, err)
	}

	return count, nil
}
