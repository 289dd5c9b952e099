package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID        int64
	MatchID   int64
	SenderID  int64
	Content   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, matchID, senderID int64, content string) (MessageRecord, error) {
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 || senderID <= 0 || content == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (match_id, sender_id, content, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, match_id, sender_id, content, read_at, created_at
`, matchID, senderID, content).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderID,
		&rec.Content,
		&rec.ReadAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("insert message: %w", err)
	}

	return rec, nil
}

// ListByMatch returns messages in a conversation, oldest first.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID int64, limit, offset int) ([]MessageRecord, error) {
	if r.pool == nil {
		return []MessageRecord{}, nil
	}
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, match_id, sender_id, content, read_at, created_at
FROM messages
WHERE match_id = $1
ORDER BY created_at ASC, id ASC
LIMIT $2 OFFSET $3
`, matchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.SenderID,
			&rec.Content,
			&rec.ReadAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

func (r *MessageRepo) GetByID(ctx context.Context, messageID int64) (MessageRecord, error) {
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if messageID <= 0 {
		return MessageRecord{}, fmt.Errorf("invalid message id")
	}

	var rec MessageRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, match_id, sender_id, content, read_at, created_at
FROM messages
WHERE id = $1
`, messageID).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.SenderID,
		&rec.Content,
		&rec.ReadAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MessageRecord{}, ErrMessageNotFound
		}
		return MessageRecord{}, fmt.Errorf("get message: %w", err)
	}

	return rec, nil
}

// MarkRead stamps read_at once; a message already read keeps its original
// timestamp and the call still succeeds.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int64) (MessageRecord, error) {
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if messageID <= 0 {
		return MessageRecord{}, fmt.Errorf("invalid message id")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE messages
SET read_at = NOW()
WHERE id = $1 AND read_at IS NULL
`, messageID); err != nil {
		return MessageRecord{}, fmt.Errorf("mark message read: %w", err)
	}

	return r.GetByID(ctx, messageID)
}
