package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	messagessvc "github.com/nkarpovich/duet-backend/internal/services/messages"
)

type messageStoreStub struct {
	nextID int64
	byID   map[int64]pgrepo.MessageRecord
}

func newMessageStoreStub() *messageStoreStub {
	return &messageStoreStub{byID: map[int64]pgrepo.MessageRecord{}}
}

func (s *messageStoreStub) Create(_ context.Context, matchID, senderID int64, content string) (pgrepo.MessageRecord, error) {
	s.nextID++
	rec := pgrepo.MessageRecord{ID: s.nextID, MatchID: matchID, SenderID: senderID, Content: content, CreatedAt: time.Now()}
	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *messageStoreStub) ListByMatch(_ context.Context, matchID int64, _, _ int) ([]pgrepo.MessageRecord, error) {
	items := make([]pgrepo.MessageRecord, 0)
	for id := int64(1); id <= s.nextID; id++ {
		rec, ok := s.byID[id]
		if ok && rec.MatchID == matchID {
			items = append(items, rec)
		}
	}
	return items, nil
}

func (s *messageStoreStub) GetByID(_ context.Context, messageID int64) (pgrepo.MessageRecord, error) {
	rec, ok := s.byID[messageID]
	if !ok {
		return pgrepo.MessageRecord{}, pgrepo.ErrMessageNotFound
	}
	return rec, nil
}

func (s *messageStoreStub) MarkRead(_ context.Context, messageID int64) (pgrepo.MessageRecord, error) {
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

type messageMatchStoreStub struct{}

func (messageMatchStoreStub) GetByID(_ context.Context, matchID int64) (pgrepo.MatchRecord, error) {
	if matchID != 10 {
		return pgrepo.MatchRecord{}, pgrepo.ErrMatchNotFound
	}
	return pgrepo.MatchRecord{ID: 10, UserAID: 1, UserBID: 2, MatchedAt: time.Now()}, nil
}

func newMessageHandlerForTest() (*MessageHandler, *messageStoreStub) {
	store := newMessageStoreStub()
	svc := messagessvc.NewService(store, messageMatchStoreStub{})
	return NewMessageHandler(svc), store
}

func sendMessage(t *testing.T, h *MessageHandler, userID int64, matchID, content string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/messages/"+matchID, bytes.NewReader(payload))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("matchId", matchID)
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	if userID > 0 {
		ctx = authsvc.WithIdentity(ctx, authsvc.Identity{UserID: userID, SID: "sid", Role: "user"})
	}
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.Send(rr, req)
	return rr
}

func TestSendMessageCreated(t *testing.T) {
	h, _ := newMessageHandlerForTest()

	rr := sendMessage(t, h, 1, "10", "hello there")
	if rr.Code != http.StatusCreated {
		t.Fatalf("send status: got %d want %d", rr.Code, http.StatusCreated)
	}

	var payload struct {
		SenderID int64      `json:"sender_id"`
		Content  string     `json:"content"`
		ReadAt   *time.Time `json:"read_at"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.SenderID != 1 || payload.Content != "hello there" {
		t.Fatalf("unexpected message payload: %s", rr.Body.String())
	}
	if payload.ReadAt != nil {
		t.Fatalf("new message should have null read_at")
	}
}

func TestSendMessageForbiddenForOutsider(t *testing.T) {
	h, store := newMessageHandlerForTest()

	rr := sendMessage(t, h, 3, "10", "let me in")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("outsider status: got %d want %d", rr.Code, http.StatusForbidden)
	}
	if len(store.byID) != 0 {
		t.Fatalf("forbidden send should not persist a message")
	}
}

func TestSendMessageUnknownMatch(t *testing.T) {
	h, _ := newMessageHandlerForTest()

	rr := sendMessage(t, h, 1, "404", "anyone")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown match status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSendMessageBlankContent(t *testing.T) {
	h, _ := newMessageHandlerForTest()

	rr := sendMessage(t, h, 1, "10", "   ")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank content status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestListMessagesEchoesAppliedLimit(t *testing.T) {
	h, _ := newMessageHandlerForTest()

	if rr := sendMessage(t, h, 1, "10", "hello"); rr.Code != http.StatusCreated {
		t.Fatalf("send status: got %d", rr.Code)
	}

	list := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/messages/10"+query, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("matchId", "10")
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		ctx = authsvc.WithIdentity(ctx, authsvc.Identity{UserID: 1, SID: "sid", Role: "user"})
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)
		return rr
	}

	var payload struct {
		Items []json.RawMessage `json:"items"`
		Limit int               `json:"limit"`
	}

	rr := list("")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status: got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Limit != messagessvc.DefaultPageSize {
		t.Fatalf("omitted limit should echo the default %d, got %d", messagessvc.DefaultPageSize, payload.Limit)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected 1 message, got %d", len(payload.Items))
	}

	rr = list("?limit=10000")
	if rr.Code != http.StatusOK {
		t.Fatalf("capped list status: got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode capped response: %v", err)
	}
	if payload.Limit != messagessvc.MaxPageSize {
		t.Fatalf("oversized limit should echo the cap %d, got %d", messagessvc.MaxPageSize, payload.Limit)
	}
}

func TestMarkReadTwiceKeepsTimestamp(t *testing.T) {
	h, store := newMessageHandlerForTest()

	sent := sendMessage(t, h, 1, "10", "read me")
	if sent.Code != http.StatusCreated {
		t.Fatalf("send status: got %d", sent.Code)
	}

	markRead := func(userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/messages/1/read", nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("messageId", "1")
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		ctx = authsvc.WithIdentity(ctx, authsvc.Identity{UserID: userID, SID: "sid", Role: "user"})
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.MarkRead(rr, req)
		return rr
	}

	if rr := markRead(1); rr.Code != http.StatusForbidden {
		t.Fatalf("sender mark read status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	first := markRead(2)
	if first.Code != http.StatusOK {
		t.Fatalf("first mark read status: got %d", first.Code)
	}
	firstRead := store.byID[1].ReadAt
	if firstRead == nil {
		t.Fatalf("read_at should be set after mark read")
	}

	second := markRead(2)
	if second.Code != http.StatusOK {
		t.Fatalf("second mark read status: got %d", second.Code)
	}
	if !store.byID[1].ReadAt.Equal(*firstRead) {
		t.Fatalf("repeat mark read should keep the original timestamp")
	}
}
