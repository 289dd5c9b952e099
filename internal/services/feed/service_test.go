package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	feedsvc "github.com/nkarpovich/duet-backend/internal/services/feed"
)

type stubFeedStore struct {
	lastLimit  int
	lastOffset int
	records    []pgrepo.FeedProfileRecord
}

func (s *stubFeedStore) ListExplore(_ context.Context, _ int64, _ bool, limit, offset int) ([]pgrepo.FeedProfileRecord, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.records, nil
}

type stubSigner struct{}

func (s *stubSigner) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.test/" + key, nil
}

func TestExploreClampsLimit(t *testing.T) {
	store := &stubFeedStore{}
	svc := feedsvc.NewService(store, &stubSigner{}, feedsvc.Options{DefaultLimit: 20, MaxLimit: 100})

	if _, err := svc.Explore(context.Background(), 1, 0, 0); err != nil {
		t.Fatalf("explore with defaults: %v", err)
	}
	if store.lastLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", store.lastLimit)
	}

	if _, err := svc.Explore(context.Background(), 1, 500, 40); err != nil {
		t.Fatalf("explore with oversized limit: %v", err)
	}
	if store.lastLimit != 100 {
		t.Fatalf("expected clamped limit 100, got %d", store.lastLimit)
	}
	if store.lastOffset != 40 {
		t.Fatalf("expected offset 40, got %d", store.lastOffset)
	}
}

func TestExploreRejectsNegativePaging(t *testing.T) {
	svc := feedsvc.NewService(&stubFeedStore{}, &stubSigner{}, feedsvc.Options{})

	if _, err := svc.Explore(context.Background(), 1, -1, 0); !errors.Is(err, feedsvc.ErrValidation) {
		t.Fatalf("negative limit should fail validation, got %v", err)
	}
	if _, err := svc.Explore(context.Background(), 1, 0, -5); !errors.Is(err, feedsvc.ErrValidation) {
		t.Fatalf("negative offset should fail validation, got %v", err)
	}
}

func TestExploreResolvesAvatars(t *testing.T) {
	store := &stubFeedStore{
		records: []pgrepo.FeedProfileRecord{
			{UserID: 2, Name: "Bea", Age: 24, AvatarKey: "avatars/2.jpg"},
			{UserID: 3, Name: "Cal", Age: 31},
		},
	}
	svc := feedsvc.NewService(store, &stubSigner{}, feedsvc.Options{})

	cards, err := svc.Explore(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].AvatarURL != "https://cdn.test/avatars/2.jpg" {
		t.Fatalf("unexpected avatar url %q", cards[0].AvatarURL)
	}
	if cards[1].AvatarURL != "" {
		t.Fatalf("card without avatar key should have empty url, got %q", cards[1].AvatarURL)
	}
}
