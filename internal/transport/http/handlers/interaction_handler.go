package handlers

import (
	"errors"
	"net/http"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	interactionssvc "github.com/nkarpovich/duet-backend/internal/services/interactions"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

type InteractionHandler struct {
	interactions *interactionssvc.Service
}

func NewInteractionHandler(interactions *interactionssvc.Service) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		writeInternal(w, "interaction service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	var req dto.CreateInteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.interactions.Record(r.Context(), identity.UserID, req.TargetUserID, req.InteractionType, req.CommentText)
	if err != nil {
		handleInteractionError(w, err)
		return
	}

	response := dto.CreateInteractionResponse{
		Interaction: toInteractionResponse(result.Interaction),
		Matched:     result.Matched,
	}
	if result.Match != nil {
		response.Match = &dto.MatchResponse{
			ID:        result.Match.ID,
			UserID1:   result.Match.UserAID,
			UserID2:   result.Match.UserBID,
			MatchedAt: result.Match.MatchedAt,
		}
	}

	httperrors.Write(w, http.StatusCreated, response)
}

func (h *InteractionHandler) ListWithUser(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		writeInternal(w, "interaction service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	otherID, ok := pathID(r, "userId")
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}

	items, err := h.interactions.ListBetween(r.Context(), identity.UserID, otherID)
	if err != nil {
		handleInteractionError(w, err)
		return
	}

	responses := make([]dto.InteractionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toInteractionResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionListResponse{Items: responses})
}

func (h *InteractionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		writeInternal(w, "interaction service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	stats, err := h.interactions.Stats(r.Context(), identity.UserID)
	if err != nil {
		handleInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionStatsResponse{
		LikesReceived:    stats.LikesReceived,
		Matches:          stats.Matches,
		CommentsReceived: stats.CommentsReceived,
	})
}

func handleInteractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interactionssvc.ErrSelfTarget):
		writeBadRequest(w, "cannot interact with yourself")
	case errors.Is(err, interactionssvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, interactionssvc.ErrTargetNotFound):
		writeNotFound(w, "target user not found")
	case errors.Is(err, interactionssvc.ErrAlreadyExists):
		writeConflict(w, "interaction already recorded")
	default:
		writeInternal(w, "internal server error")
	}
}

func toInteractionResponse(item model.Interaction) dto.InteractionResponse {
	return dto.InteractionResponse{
		ID:              item.ID,
		UserID:          item.UserID,
		TargetUserID:    item.TargetUserID,
		InteractionType: string(item.Type),
		CommentText:     item.CommentText,
		CreatedAt:       item.CreatedAt,
	}
}
