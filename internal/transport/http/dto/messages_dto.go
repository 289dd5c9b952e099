package dto

import "time"

type SendMessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	ID        int64      `json:"id"`
	MatchID   int64      `json:"match_id"`
	SenderID  int64      `json:"sender_id"`
	Content   string     `json:"content"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type MessageListResponse struct {
	Items  []MessageResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
