package enums

import "strings"

type InteractionType string

const (
	InteractionLike     InteractionType = "like"
	InteractionPass     InteractionType = "pass"
	InteractionFavorite InteractionType = "favorite"
	InteractionArchive  InteractionType = "archive"
	InteractionComment  InteractionType = "comment"
)

// ParseInteractionType maps a request value onto the enumerated set.
// Unknown values are rejected rather than stored as free-form strings.
func ParseInteractionType(value string) (InteractionType, bool) {
	switch InteractionType(strings.ToLower(strings.TrimSpace(value))) {
	case InteractionLike:
		return InteractionLike, true
	case InteractionPass:
		return InteractionPass, true
	case InteractionFavorite:
		return InteractionFavorite, true
	case InteractionArchive:
		return InteractionArchive, true
	case InteractionComment:
		return InteractionComment, true
	default:
		return "", false
	}
}
