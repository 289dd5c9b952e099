package model

import "time"

type Message struct {
	ID        int64      `json:"id"`
	MatchID   int64      `json:"match_id"`
	SenderID  int64      `json:"sender_id"`
	Content   string     `json:"content"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}
