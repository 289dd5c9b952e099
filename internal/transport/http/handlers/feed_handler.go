package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	feedsvc "github.com/nkarpovich/duet-backend/internal/services/feed"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

type FeedHandler struct {
	feed *feedsvc.Service
}

func NewFeedHandler(feed *feedsvc.Service) *FeedHandler {
	return &FeedHandler{feed: feed}
}

func (h *FeedHandler) Explore(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeInternal(w, "feed service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		writeBadRequest(w, "invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		writeBadRequest(w, "invalid offset")
		return
	}

	cards, err := h.feed.Explore(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		if errors.Is(err, feedsvc.ErrValidation) {
			writeBadRequest(w, "invalid paging parameters")
			return
		}
		writeInternal(w, "internal server error")
		return
	}

	items := make([]dto.FeedCardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, dto.FeedCardResponse{
			UserID:    card.UserID,
			Name:      card.Name,
			Age:       card.Age,
			Gender:    card.Gender,
			Bio:       card.Bio,
			AvatarURL: card.AvatarURL,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{
		Items:  items,
		Limit:  h.feed.EffectiveLimit(limit),
		Offset: offset,
	})
}
