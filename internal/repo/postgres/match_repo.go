package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	MatchedAt time.Time
}

type MatchSummaryRecord struct {
	ID           int64
	TargetUserID int64
	TargetName   string
	TargetAge    int
	MatchedAt    time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateCanonical inserts the match row for the canonically ordered pair.
// The unique constraint on (user_a_id, user_b_id) is the only guard against
// the double-insert race: when the other side's promotion won, the insert is
// a no-op and the existing row is returned with created=false.
func (r *MatchRepo) CreateCanonical(ctx context.Context, userID, targetID int64) (MatchRecord, bool, error) {
	if r.pool == nil {
		return MatchRecord{}, false, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return MatchRecord{}, false, fmt.Errorf("invalid match payload")
	}

	userA, userB := CanonicalPair(userID, targetID)

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO matches (user_a_id, user_b_id, matched_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id, user_a_id, user_b_id, matched_at
`, userA, userB).Scan(&rec.ID, &rec.UserAID, &rec.UserBID, &rec.MatchedAt)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	existing, err := r.GetByPair(ctx, userA, userB)
	if err != nil {
		return MatchRecord{}, false, err
	}

	return existing, false, nil
}

func (r *MatchRepo) GetByPair(ctx context.Context, userID, targetID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || targetID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match lookup payload")
	}

	userA, userB := CanonicalPair(userID, targetID)

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, matched_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, userA, userB).Scan(&rec.ID, &rec.UserAID, &rec.UserBID, &rec.MatchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match by pair: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (MatchRecord, error) {
	if r.pool == nil {
		return MatchRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match id")
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, matched_at
FROM matches
WHERE id = $1
`, matchID).Scan(&rec.ID, &rec.UserAID, &rec.UserBID, &rec.MatchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match by id: %w", err)
	}

	return rec, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MatchSummaryRecord, error) {
	if r.pool == nil {
		return []MatchSummaryRecord{}, nil
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS target_user_id,
	COALESCE(p.name, ''),
	COALESCE(p.age, 0),
	m.matched_at
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE m.user_a_id = $1 OR m.user_b_id = $1
ORDER BY m.matched_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchSummaryRecord, 0, limit)
	for rows.Next() {
		var rec MatchSummaryRecord
		if err := rows.Scan(&rec.ID, &rec.TargetUserID, &rec.TargetName, &rec.TargetAge, &rec.MatchedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

func (r *MatchRepo) CountForUser(ctx context.Context, userID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}

	return count, nil
}

// CanonicalPair orders a user pair with the lower identifier first so the
// unordered pair maps onto a single unique row.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
