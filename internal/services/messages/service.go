package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const (
	maxContentLen = 2000

	// DefaultPageSize and MaxPageSize bound conversation paging. They are
	// exported so list responses can echo the value actually applied.
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("not a participant of this conversation")
)

type MessageStore interface {
	Create(ctx context.Context, matchID, senderID int64, content string) (pgrepo.MessageRecord, error)
	ListByMatch(ctx context.Context, matchID int64, limit, offset int) ([]pgrepo.MessageRecord, error)
	GetByID(ctx context.Context, messageID int64) (pgrepo.MessageRecord, error)
	MarkRead(ctx context.Context, messageID int64) (pgrepo.MessageRecord, error)
}

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
}

type Service struct {
	messages MessageStore
	matches  MatchStore
}

func NewService(messages MessageStore, matches MatchStore) *Service {
	return &Service{messages: messages, matches: matches}
}

// Send appends a message to a match conversation. Only the two matched
// users may write to it.
func (s *Service) Send(ctx context.Context, senderID, matchID int64, content string) (model.Message, error) {
	if s.messages == nil || s.matches == nil {
		return model.Message{}, fmt.Errorf("messages service is not configured")
	}
	if senderID <= 0 || matchID <= 0 {
		return model.Message{}, ErrValidation
	}

	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxContentLen {
		return model.Message{}, ErrValidation
	}

	if _, err := s.requireParticipant(ctx, senderID, matchID); err != nil {
		return model.Message{}, err
	}

	rec, err := s.messages.Create(ctx, matchID, senderID, content)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}

	return toMessage(rec), nil
}

// List returns the conversation in chronological order.
func (s *Service) List(ctx context.Context, userID, matchID int64, limit, offset int) ([]model.Message, error) {
	if s.messages == nil || s.matches == nil {
		return nil, fmt.Errorf("messages service is not configured")
	}
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if limit < 0 || offset < 0 {
		return nil, ErrValidation
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if _, err := s.requireParticipant(ctx, userID, matchID); err != nil {
		return nil, err
	}

	records, err := s.messages.ListByMatch(ctx, matchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	items := make([]model.Message, 0, len(records))
	for _, rec := range records {
		items = append(items, toMessage(rec))
	}

	return items, nil
}

// MarkRead stamps a message as read. Only the recipient may do so, and
// repeating the call on an already read message keeps the original
// timestamp.
func (s *Service) MarkRead(ctx context.Context, userID, messageID int64) (model.Message, error) {
	if s.messages == nil || s.matches == nil {
		return model.Message{}, fmt.Errorf("messages service is not configured")
	}
	if userID <= 0 || messageID <= 0 {
		return model.Message{}, ErrValidation
	}

	rec, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMessageNotFound) {
			return model.Message{}, ErrNotFound
		}
		return model.Message{}, fmt.Errorf("get message: %w", err)
	}

	if _, err := s.requireParticipant(ctx, userID, rec.MatchID); err != nil {
		return model.Message{}, err
	}
	if rec.SenderID == userID {
		return model.Message{}, ErrForbidden
	}

	if rec.ReadAt != nil {
		return toMessage(rec), nil
	}

	updated, err := s.messages.MarkRead(ctx, messageID)
	if err != nil {
		return model.Message{}, fmt.Errorf("mark message read: %w", err)
	}

	return toMessage(updated), nil
}

func (s *Service) requireParticipant(ctx context.Context, userID, matchID int64) (pgrepo.MatchRecord, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return pgrepo.MatchRecord{}, ErrNotFound
		}
		return pgrepo.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	if match.UserAID != userID && match.UserBID != userID {
		return pgrepo.MatchRecord{}, ErrForbidden
	}
	return match, nil
}

func toMessage(rec pgrepo.MessageRecord) model.Message {
	return model.Message{
		ID:        rec.ID,
		MatchID:   rec.MatchID,
		SenderID:  rec.SenderID,
		Content:   rec.Content,
		ReadAt:    rec.ReadAt,
		CreatedAt: rec.CreatedAt,
	}
}
