package dto

import "time"

type MatchResponse struct {
	ID        int64     `json:"id"`
	UserID1   int64     `json:"user_id_1"`
	UserID2   int64     `json:"user_id_2"`
	MatchedAt time.Time `json:"matched_at"`
}

type MatchSummaryResponse struct {
	ID           int64     `json:"id"`
	TargetUserID int64     `json:"target_user_id"`
	TargetName   string    `json:"target_name"`
	TargetAge    int       `json:"target_age"`
	MatchedAt    time.Time `json:"matched_at"`
}

type MatchListResponse struct {
	Items []MatchSummaryResponse `json:"items"`
}
