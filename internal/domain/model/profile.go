package model

import "time"

type Profile struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileDetails is the 1:1 lifestyle extension of a Profile. A row is
// created empty at registration and only ever mutated by its owner.
type ProfileDetails struct {
	UserID     int64    `json:"user_id"`
	Occupation string   `json:"occupation"`
	Education  string   `json:"education"`
	HeightCM   int      `json:"height_cm"`
	Smoking    string   `json:"smoking"`
	Drinking   string   `json:"drinking"`
	LookingFor string   `json:"looking_for"`
	Interests  []string `json:"interests"`
	Languages  []string `json:"languages"`
}
