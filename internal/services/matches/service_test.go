package matches_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	matchessvc "github.com/nkarpovich/duet-backend/internal/services/matches"
)

type stubMatchStore struct {
	byID map[int64]pgrepo.MatchRecord
}

func (s *stubMatchStore) GetByID(_ context.Context, matchID int64) (pgrepo.MatchRecord, error) {
	rec, ok := s.byID[matchID]
	if !ok {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return rec, nil
}

func (s *stubMatchStore) ListForUser(_ context.Context, userID int64, _ int) ([]pgrepo.MatchSummaryRecord, error) {
	items := make([]pgrepo.MatchSummaryRecord, 0)
	for _, rec := range s.byID {
		if rec.UserAID == userID || rec.UserBID == userID {
			other := rec.UserAID
			if other == userID {
				other = rec.UserBID
			}
			items = append(items, pgrepo.MatchSummaryRecord{ID: rec.ID, TargetUserID: other, MatchedAt: rec.MatchedAt})
		}
	}
	return items, nil
}

func newService() *matchessvc.Service {
	return matchessvc.NewService(&stubMatchStore{
		byID: map[int64]pgrepo.MatchRecord{
			10: {ID: 10, UserAID: 1, UserBID: 2, MatchedAt: time.Now()},
		},
	})
}

func TestGetForUserParticipant(t *testing.T) {
	svc := newService()

	match, err := svc.GetForUser(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("participant should see match: %v", err)
	}
	if match.ID != 10 {
		t.Fatalf("unexpected match %+v", match)
	}
}

func TestGetForUserOutsider(t *testing.T) {
	svc := newService()

	if _, err := svc.GetForUser(context.Background(), 3, 10); !errors.Is(err, matchessvc.ErrForbidden) {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}
}

func TestGetForUserMissing(t *testing.T) {
	svc := newService()

	if _, err := svc.GetForUser(context.Background(), 1, 404); !errors.Is(err, matchessvc.ErrNotFound) {
		t.Fatalf("missing match should be not found, got %v", err)
	}
}

func TestListForUser(t *testing.T) {
	svc := newService()

	items, err := svc.List(context.Background(), 1, 50)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(items) != 1 || items[0].TargetUserID != 2 {
		t.Fatalf("unexpected match list %+v", items)
	}
}
