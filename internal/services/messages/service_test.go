package messages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	messagessvc "github.com/nkarpovich/duet-backend/internal/services/messages"
)

type stubMessageStore struct {
	nextID int64
	byID   map[int64]pgrepo.MessageRecord
}

func newStubMessageStore() *stubMessageStore {
	return &stubMessageStore{byID: map[int64]pgrepo.MessageRecord{}}
}

func (s *stubMessageStore) Create(_ context.Context, matchID, senderID int64, content string) (pgrepo.MessageRecord, error) {
	s.nextID++
	rec := pgrepo.MessageRecord{ID: s.nextID, MatchID: matchID, SenderID: senderID, Content: content, CreatedAt: time.Now()}
	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *stubMessageStore) ListByMatch(_ context.Context, matchID int64, _, _ int) ([]pgrepo.MessageRecord, error) {
	items := make([]pgrepo.MessageRecord, 0)
	for id := int64(1); id <= s.nextID; id++ {
		rec, ok := s.byID[id]
		if ok && rec.MatchID == matchID {
			items = append(items, rec)
		}
	}
	return items, nil
}

func (s *stubMessageStore) GetByID(_ context.Context, messageID int64) (pgrepo.MessageRecord, error) {
	rec, ok := s.byID[messageID]
	if !ok {
		return pgrepo.MessageRecord{}, pgrepo.ErrMessageNotFound
	}
	return rec, nil
}

func (s *stubMessageStore) MarkRead(_ context.Context, messageID int64) (pgrepo.MessageRecord, error) {
	rec, ok := s.byID[messageID]
	if !ok {
		return pgrepo.MessageRecord{}, pgrepo.ErrMessageNotFound
	}
	if rec.ReadAt == nil {
		now := time.Now()
		rec.ReadAt = &now
		s.byID[messageID] = rec
	}
	return rec, nil
}

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

func newService() (*messagessvc.Service, *stubMessageStore) {
	store := newStubMessageStore()
	matches := &stubMatchStore{byID: map[int64]pgrepo.MatchRecord{
		10: {ID: 10, UserAID: 1, UserBID: 2},
	}}
	return messagessvc.NewService(store, matches), store
}

func TestSendAndList(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, 1, 10, "hi there"); err != nil {
		t.Fatalf("send first: %v", err)
	}
	if _, err := svc.Send(ctx, 2, 10, "hello back"); err != nil {
		t.Fatalf("send second: %v", err)
	}

	items, err := svc.List(ctx, 1, 10, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(items))
	}
	if items[0].Content != "hi there" || items[1].Content != "hello back" {
		t.Fatalf("messages out of order: %+v", items)
	}
}

func TestSendOutsiderForbidden(t *testing.T) {
	svc, _ := newService()

	if _, err := svc.Send(context.Background(), 3, 10, "let me in"); !errors.Is(err, messagessvc.ErrForbidden) {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}
}

func TestSendUnknownMatch(t *testing.T) {
	svc, _ := newService()

	if _, err := svc.Send(context.Background(), 1, 404, "anyone here"); !errors.Is(err, messagessvc.ErrNotFound) {
		t.Fatalf("unknown match should be not found, got %v", err)
	}
}

func TestSendEmptyContent(t *testing.T) {
	svc, _ := newService()

	if _, err := svc.Send(context.Background(), 1, 10, "   "); !errors.Is(err, messagessvc.ErrValidation) {
		t.Fatalf("blank content should fail validation, got %v", err)
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	sent, err := svc.Send(ctx, 1, 10, "read me")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.MarkRead(ctx, 1, sent.ID); !errors.Is(err, messagessvc.ErrForbidden) {
		t.Fatalf("sender should not mark own message read, got %v", err)
	}

	read, err := svc.MarkRead(ctx, 2, sent.ID)
	if err != nil {
		t.Fatalf("recipient mark read: %v", err)
	}
	if read.ReadAt == nil {
		t.Fatalf("read_at should be set")
	}

	again, err := svc.MarkRead(ctx, 2, sent.ID)
	if err != nil {
		t.Fatalf("repeat mark read: %v", err)
	}
	if !again.ReadAt.Equal(*read.ReadAt) {
		t.Fatalf("repeat mark read should keep original timestamp")
	}
}

func TestMarkReadOutsideOwnMatches(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	rec, err := store.Create(ctx, 99, 5, "stray message")
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if _, err := svc.MarkRead(ctx, 2, rec.ID); !errors.Is(err, messagessvc.ErrNotFound) {
		t.Fatalf("message in an unknown match should be not found, got %v", err)
	}

	if _, err := svc.MarkRead(ctx, 2, 12345); !errors.Is(err, messagessvc.ErrNotFound) {
		t.Fatalf("missing message should be not found, got %v", err)
	}
}
