package interactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nkarpovich/duet-backend/internal/domain/enums"
	"github.com/nkarpovich/duet-backend/internal/domain/model"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const maxCommentLen = 500

var (
	ErrValidation     = errors.New("validation error")
	ErrSelfTarget     = errors.New("cannot interact with yourself")
	ErrTargetNotFound = errors.New("target user not found")
	ErrAlreadyExists  = errors.New("interaction already exists")
)

type InteractionStore interface {
	Create(ctx context.Context, userID, targetUserID int64, interactionType string, commentText *string) (pgrepo.InteractionRecord, error)
	HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error)
	ListBetween(ctx context.Context, userID, otherUserID int64) ([]pgrepo.InteractionRecord, error)
	CountLikesReceived(ctx context.Context, userID int64) (int64, error)
	CountCommentsReceived(ctx context.Context, userID int64) (int64, error)
}

type MatchStore interface {
	CreateCanonical(ctx context.Context, userID, targetID int64) (pgrepo.MatchRecord, bool, error)
	CountForUser(ctx context.Context, userID int64) (int64, error)
}

type ProfileChecker interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type StatsCache interface {
	GetLikesReceived(ctx context.Context, userID int64) (int64, bool, error)
	SetLikesReceived(ctx context.Context, userID, count int64) error
	InvalidateLikesReceived(ctx context.Context, userID int64) error
}

type RecordResult struct {
	Interaction model.Interaction
	Matched     bool
	Match       *model.Match
}

type Stats struct {
	LikesReceived    int64
	Matches          int64
	CommentsReceived int64
}

type Service struct {
	interactions InteractionStore
	matches      MatchStore
	profiles     ProfileChecker
	cache        StatsCache
	log          *zap.Logger
}

func NewService(interactions InteractionStore, matches MatchStore, profiles ProfileChecker, cache StatsCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		interactions: interactions,
		matches:      matches,
		profiles:     profiles,
		cache:        cache,
		log:          log,
	}
}

// Record stores one interaction and, for a reciprocal like, promotes the
// pair to a match. The interaction insert and the match insert are separate
// statements; the unique constraint on the match pair absorbs the race when
// both sides like each other concurrently.
func (s *Service) Record(ctx context.Context, actorID, targetID int64, rawType string, commentText *string) (RecordResult, error) {
	if s.interactions == nil || s.matches == nil || s.profiles == nil {
		return RecordResult{}, fmt.Errorf("interactions service is not configured")
	}
	if actorID <= 0 || targetID <= 0 {
		return RecordResult{}, ErrValidation
	}
	if actorID == targetID {
		return RecordResult{}, ErrSelfTarget
	}

	interactionType, ok := enums.ParseInteractionType(rawType)
	if !ok {
		return RecordResult{}, ErrValidation
	}

	comment, err := normalizeComment(interactionType, commentText)
	if err != nil {
		return RecordResult{}, err
	}

	if _, err := s.profiles.Get(ctx, targetID); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return RecordResult{}, ErrTargetNotFound
		}
		return RecordResult{}, fmt.Errorf("check target profile: %w", err)
	}

	rec, err := s.interactions.Create(ctx, actorID, targetID, string(interactionType), comment)
	if err != nil {
		if errors.Is(err, pgrepo.ErrInteractionExists) {
			return RecordResult{}, ErrAlreadyExists
		}
		return RecordResult{}, fmt.Errorf("create interaction: %w", err)
	}

	result := RecordResult{Interaction: toInteraction(rec)}

	if interactionType == enums.InteractionLike {
		s.invalidateLikes(ctx, targetID)

		reciprocal, err := s.interactions.HasLike(ctx, targetID, actorID)
		if err != nil {
			return RecordResult{}, fmt.Errorf("check reciprocal like: %w", err)
		}
		if reciprocal {
			matchRec, created, err := s.matches.CreateCanonical(ctx, actorID, targetID)
			if err != nil {
				return RecordResult{}, fmt.Errorf("promote match: %w", err)
			}
			match := toMatch(matchRec)
			result.Matched = true
			result.Match = &match
			if created {
				s.log.Info("match created",
					zap.Int64("match_id", match.ID),
					zap.Int64("user_a_id", match.UserAID),
					zap.Int64("user_b_id", match.UserBID),
				)
			}
		}
	}

	return result, nil
}

// ListBetween returns the interaction history between the actor and another
// user, oldest first.
func (s *Service) ListBetween(ctx context.Context, actorID, otherID int64) ([]model.Interaction, error) {
	if s.interactions == nil {
		return nil, fmt.Errorf("interactions service is not configured")
	}
	if actorID <= 0 || otherID <= 0 {
		return nil, ErrValidation
	}
	if actorID == otherID {
		return nil, ErrSelfTarget
	}

	records, err := s.interactions.ListBetween(ctx, actorID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	items := make([]model.Interaction, 0, len(records))
	for _, rec := range records {
		items = append(items, toInteraction(rec))
	}

	return items, nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	if s.interactions == nil || s.matches == nil {
		return Stats{}, fmt.Errorf("interactions service is not configured")
	}
	if userID <= 0 {
		return Stats{}, ErrValidation
	}

	likes, err := s.likesReceived(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	matches, err := s.matches.CountForUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count matches: %w", err)
	}

	comments, err := s.interactions.CountCommentsReceived(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count comments: %w", err)
	}

	return Stats{
		LikesReceived:    likes,
		Matches:          matches,
		CommentsReceived: comments,
	}, nil
}

func (s *Service) likesReceived(ctx context.Context, userID int64) (int64, error) {
	if s.cache != nil {
		if count, ok, err := s.cache.GetLikesReceived(ctx, userID); err == nil && ok {
			return count, nil
		}
	}

	count, err := s.interactions.CountLikesReceived(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetLikesReceived(ctx, userID, count); err != nil {
			s.log.Warn("cache likes counter", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return count, nil
}

func (s *Service) invalidateLikes(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLikesReceived(ctx, userID); err != nil {
		s.log.Warn("invalidate likes counter", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// normalizeComment enforces the comment-text rules: a comment must carry
// non-blank text within the length cap, while text sent with any other
// type is ignored rather than rejected.
func normalizeComment(interactionType enums.InteractionType, commentText *string) (*string, error) {
	if interactionType != enums.InteractionComment {
		return nil, nil
	}

	if commentText == nil {
		return nil, ErrValidation
	}
	trimmed := strings.TrimSpace(*commentText)
	if trimmed == "" || len(trimmed) > maxCommentLen {
		return nil, ErrValidation
	}
	return &trimmed, nil
}

func toInteraction(rec pgrepo.InteractionRecord) model.Interaction {
	return model.Interaction{
		ID:           rec.ID,
		UserID:       rec.UserID,
		TargetUserID: rec.TargetUserID,
		Type:         enums.InteractionType(rec.Type),
		CommentText:  rec.CommentText,
		CreatedAt:    rec.CreatedAt,
	}
}

func toMatch(rec pgrepo.MatchRecord) model.Match {
	return model.Match{
		ID:        rec.ID,
		UserAID:   rec.UserAID,
		UserBID:   rec.UserBID,
		MatchedAt: rec.MatchedAt,
	}
}
