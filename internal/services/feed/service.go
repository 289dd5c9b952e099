package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const signedURLTTL = 5 * time.Minute

var ErrValidation = errors.New("validation error")

type FeedStore interface {
	ListExplore(ctx context.Context, viewerID int64, excludeInteracted bool, limit, offset int) ([]pgrepo.FeedProfileRecord, error)
}

type URLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Card struct {
	UserID    int64
	Name      string
	Age       int
	Gender    string
	Bio       string
	AvatarURL string
}

type Options struct {
	// ExcludeInteracted removes profiles the viewer already acted on.
	// Off by default so passed profiles stay visible.
	ExcludeInteracted bool
	DefaultLimit      int
	MaxLimit          int
}

type Service struct {
	store   FeedStore
	signer  URLSigner
	options Options
}

func NewService(store FeedStore, signer URLSigner, options Options) *Service {
	if options.DefaultLimit <= 0 {
		options.DefaultLimit = 20
	}
	if options.MaxLimit <= 0 {
		options.MaxLimit = 100
	}
	return &Service{store: store, signer: signer, options: options}
}

// EffectiveLimit resolves the page size Explore will use for a requested
// limit, so responses can report the value that was actually applied.
func (s *Service) EffectiveLimit(limit int) int {
	if limit <= 0 {
		return s.options.DefaultLimit
	}
	if limit > s.options.MaxLimit {
		return s.options.MaxLimit
	}
	return limit
}

// Explore pages through other users' profiles for the viewer.
func (s *Service) Explore(ctx context.Context, viewerID int64, limit, offset int) ([]Card, error) {
	if s.store == nil {
		return nil, fmt.Errorf("feed store is nil")
	}
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if limit < 0 || offset < 0 {
		return nil, ErrValidation
	}
	limit = s.EffectiveLimit(limit)

	records, err := s.store.ListExplore(ctx, viewerID, s.options.ExcludeInteracted, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list explore feed: %w", err)
	}

	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		card := Card{
			UserID: rec.UserID,
			Name:   rec.Name,
			Age:    rec.Age,
			Gender: rec.Gender,
			Bio:    rec.Bio,
		}
		if rec.AvatarKey != "" && s.signer != nil {
			if url, err := s.signer.PresignGet(ctx, rec.AvatarKey, signedURLTTL); err == nil {
				card.AvatarURL = url
			}
		}
		cards = append(cards, card)
	}

	return cards, nil
}
