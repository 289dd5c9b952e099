package model

import "time"

type Photo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	Position  int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
