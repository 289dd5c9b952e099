package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
	ErrForbidden  = errors.New("not a participant of this match")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (pgrepo.MatchRecord, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchSummaryRecord, error)
}

type Summary struct {
	ID           int64
	TargetUserID int64
	TargetName   string
	TargetAge    int
	MatchedAt    time.Time
}

type Service struct {
	store MatchStore
}

func NewService(store MatchStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Summary, error) {
	if s.store == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if userID <= 0 {
		return nil, ErrValidation
	}

	records, err := s.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	items := make([]Summary, 0, len(records))
	for _, rec := range records {
		items = append(items, Summary{
			ID:           rec.ID,
			TargetUserID: rec.TargetUserID,
			TargetName:   rec.TargetName,
			TargetAge:    rec.TargetAge,
			MatchedAt:    rec.MatchedAt,
		})
	}

	return items, nil
}

// GetForUser loads a match and verifies the caller is one of its two
// participants. Outsiders get ErrForbidden, not a silent not found, so the
// handlers can map the two cases to different status codes.
func (s *Service) GetForUser(ctx context.Context, userID, matchID int64) (model.Match, error) {
	if s.store == nil {
		return model.Match{}, fmt.Errorf("match store is nil")
	}
	if userID <= 0 || matchID <= 0 {
		return model.Match{}, ErrValidation
	}

	rec, err := s.store.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}

	if rec.UserAID != userID && rec.UserBID != userID {
		return model.Match{}, ErrForbidden
	}

	return model.Match{
		ID:        rec.ID,
		UserAID:   rec.UserAID,
		UserBID:   rec.UserBID,
		MatchedAt: rec.MatchedAt,
	}, nil
}
