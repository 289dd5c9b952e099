package handlers

import (
	"errors"
	"net/http"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	messagessvc "github.com/nkarpovich/duet-backend/internal/services/messages"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

type MessageHandler struct {
	messages *messagessvc.Service
}

func NewMessageHandler(messages *messagessvc.Service) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.messages == nil {
		writeInternal(w, "message service is unavailable")
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

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	message, err := h.messages.Send(r.Context(), identity.UserID, matchID, req.Content)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toMessageResponse(message))
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.messages == nil {
		writeInternal(w, "message service is unavailable")
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

	// Echo the limit the service actually applies, not the raw query value.
	if limit == 0 {
		limit = messagessvc.DefaultPageSize
	}
	if limit > messagessvc.MaxPageSize {
		limit = messagessvc.MaxPageSize
	}

	items, err := h.messages.List(r.Context(), identity.UserID, matchID, limit, offset)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	responses := make([]dto.MessageResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toMessageResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MessageListResponse{
		Items:  responses,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if h.messages == nil {
		writeInternal(w, "message service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	messageID, ok := pathID(r, "messageId")
	if !ok {
		writeBadRequest(w, "invalid message id")
		return
	}

	message, err := h.messages.MarkRead(r.Context(), identity.UserID, messageID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toMessageResponse(message))
}

func handleMessageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, messagessvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, messagessvc.ErrNotFound):
		writeNotFound(w, "not found")
	case errors.Is(err, messagessvc.ErrForbidden):
		writeForbidden(w, "not a participant of this conversation")
	default:
		writeInternal(w, "internal server error")
	}
}

func toMessageResponse(message model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        message.ID,
		MatchID:   message.MatchID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		ReadAt:    message.ReadAt,
		CreatedAt: message.CreatedAt,
	}
}
