package dto

type FeedCardResponse struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type FeedResponse struct {
	Items  []FeedCardResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
