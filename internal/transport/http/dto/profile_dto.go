package dto

import "time"

type ProfileResponse struct {
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Age       int             `json:"age"`
	Gender    string          `json:"gender"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Photos    []PhotoResponse `json:"photos,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Bio    string `json:"bio"`
}

type ProfileDetailsPayload struct {
	Occupation string   `json:"occupation"`
	Education  string   `json:"education"`
	HeightCM   int      `json:"height_cm"`
	Smoking    string   `json:"smoking"`
	Drinking   string   `json:"drinking"`
	LookingFor string   `json:"looking_for"`
	Interests  []string `json:"interests"`
	Languages  []string `json:"languages"`
}
