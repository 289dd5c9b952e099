package model

import (
	"time"

	"github.com/nkarpovich/duet-backend/internal/domain/enums"
)

// Interaction is a directed, typed action from one user toward another.
// Rows are immutable; at most one row exists per (user, target, type).
type Interaction struct {
	ID           int64                 `json:"id"`
	UserID       int64                 `json:"user_id"`
	TargetUserID int64                 `json:"target_user_id"`
	Type         enums.InteractionType `json:"interaction_type"`
	CommentText  *string               `json:"comment_text,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}
