package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	matchessvc "github.com/nkarpovich/duet-backend/internal/services/matches"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

const matchListLimit = 100

type MatchesHandler struct {
	matches *matchessvc.Service
}

func NewMatchesHandler(matches *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{matches: matches}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "match service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	items, err := h.matches.List(r.Context(), identity.UserID, matchListLimit)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	responses := make([]dto.MatchSummaryResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.MatchSummaryResponse{
			ID:           item.ID,
			TargetUserID: item.TargetUserID,
			TargetName:   item.TargetName,
			TargetAge:    item.TargetAge,
			MatchedAt:    item.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchListResponse{Items: responses})
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		writeInternal(w, "match service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	matchID, ok := pathID(r, "matchId")
	if !ok {
		writeBadRequest(w, "invalid match id")
		return
	}

	match, err := h.matches.GetForUser(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchResponse{
		ID:        match.ID,
		UserID1:   match.UserAID,
		UserID2:   match.UserBID,
		MatchedAt: match.MatchedAt,
	})
}

func handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, matchessvc.ErrNotFound):
		writeNotFound(w, "match not found")
	case errors.Is(err, matchessvc.ErrForbidden):
		writeForbidden(w, "not a participant of this match")
	default:
		writeInternal(w, "internal server error")
	}
}
