package dto

import "time"

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type PhotoResponse struct {
	ID        int64     `json:"id"`
	Order     int       `json:"order"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotoListResponse struct {
	Items []PhotoResponse `json:"items"`
}

type DeletePhotoResponse struct {
	OK bool `json:"ok"`
}
