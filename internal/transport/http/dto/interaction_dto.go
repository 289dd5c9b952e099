package dto

import "time"

type CreateInteractionRequest struct {
	TargetUserID    int64   `json:"target_user_id"`
	InteractionType string  `json:"interaction_type"`
	CommentText     *string `json:"comment_text,omitempty"`
}

type InteractionResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TargetUserID    int64     `json:"target_user_id"`
	InteractionType string    `json:"interaction_type"`
	CommentText     *string   `json:"comment_text,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateInteractionResponse struct {
	Interaction InteractionResponse `json:"interaction"`
	Matched     bool                `json:"matched"`
	Match       *MatchResponse      `json:"match,omitempty"`
}

type InteractionListResponse struct {
	Items []InteractionResponse `json:"items"`
}

type InteractionStatsResponse struct {
	LikesReceived    int64 `json:"likes_received"`
	Matches          int64 `json:"matches"`
	CommentsReceived int64 `json:"comments_received"`
}
