package model

import "time"

// Match represents a mutual like between two users. The pair is stored
// canonically ordered (UserAID < UserBID) so the unique constraint holds
// regardless of who liked first.
type Match struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"user_id_1"`
	UserBID   int64     `json:"user_id_2"`
	MatchedAt time.Time `json:"matched_at"`
}
