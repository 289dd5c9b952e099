package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const signedURLTTL = 5 * time.Minute

var (
	ErrValidation      = errors.New("validation error")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrUnsupportedMIME = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("file too large")
	ErrBatchTooLarge   = errors.New("too many files in one upload")
)

type PhotoStore interface {
	Create(ctx context.Context, userID int64, objectKey string) (pgrepo.PhotoRecord, error)
	ListActive(ctx context.Context, userID int64) ([]pgrepo.PhotoRecord, error)
	SoftDelete(ctx context.Context, userID, photoID int64) error
}

type AvatarStore interface {
	SetAvatarKey(ctx context.Context, userID int64, objectKey string) (string, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Options struct {
	MaxSizeBytes int64
	AllowedMIME  []string
	MaxBatch     int
}

type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

type Avatar struct {
	URL string
}

type Service struct {
	photos  PhotoStore
	avatars AvatarStore
	storage ObjectStorage
	options Options
}

func NewService(photos PhotoStore, avatars AvatarStore, storage ObjectStorage, options Options) *Service {
	if options.MaxSizeBytes <= 0 {
		options.MaxSizeBytes = 5 << 20
	}
	if options.MaxBatch <= 0 {
		options.MaxBatch = 10
	}
	if len(options.AllowedMIME) == 0 {
		options.AllowedMIME = []string{"image/jpeg", "image/png", "image/webp"}
	}
	return &Service{
		photos:  photos,
		avatars: avatars,
		storage: storage,
		options: options,
	}
}

// UploadAvatar replaces the user's avatar. The previous object is removed
// from storage once the new key is committed.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, upload Upload) (Avatar, error) {
	if s.avatars == nil || s.storage == nil {
		return Avatar{}, fmt.Errorf("media dependencies are not configured")
	}
	if userID <= 0 {
		return Avatar{}, ErrValidation
	}
	if err := s.checkUpload(upload); err != nil {
		return Avatar{}, err
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Avatar{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildObjectKey(userID, "avatar", upload.FileName)
	if err := s.storage.Put(ctx, objectKey, upload.Body, upload.Size, upload.ContentType); err != nil {
		return Avatar{}, fmt.Errorf("put avatar object: %w", err)
	}

	previousKey, err := s.avatars.SetAvatarKey(ctx, userID, objectKey)
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Avatar{}, ErrValidation
		}
		return Avatar{}, fmt.Errorf("set avatar key: %w", err)
	}

	if previousKey != "" && previousKey != objectKey {
		_ = s.storage.Delete(ctx, previousKey)
	}

	url, err := s.storage.PresignGet(ctx, objectKey, signedURLTTL)
	if err != nil {
		return Avatar{}, fmt.Errorf("presign avatar url: %w", err)
	}

	return Avatar{URL: url}, nil
}

// UploadPhotos stores a batch of gallery photos. Every file is validated
// before the first byte reaches storage, and a failure midway rolls back
// the objects already written so the gallery never ends up half updated.
func (s *Service) UploadPhotos(ctx context.Context, userID int64, uploads []Upload) ([]model.Photo, error) {
	if s.photos == nil || s.storage == nil {
		return nil, fmt.Errorf("media dependencies are not configured")
	}
	if userID <= 0 || len(uploads) == 0 {
		return nil, ErrValidation
	}
	if len(uploads) > s.options.MaxBatch {
		return nil, ErrBatchTooLarge
	}
	for _, upload := range uploads {
		if err := s.checkUpload(upload); err != nil {
			return nil, err
		}
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	storedKeys := make([]string, 0, len(uploads))
	records := make([]pgrepo.PhotoRecord, 0, len(uploads))

	rollback := func() {
		for _, key := range storedKeys {
			_ = s.storage.Delete(ctx, key)
		}
	}

	for _, upload := range uploads {
		objectKey := buildObjectKey(userID, "photos", upload.FileName)
		if err := s.storage.Put(ctx, objectKey, upload.Body, upload.Size, upload.ContentType); err != nil {
			rollback()
			return nil, fmt.Errorf("put photo object: %w", err)
		}
		storedKeys = append(storedKeys, objectKey)

		rec, err := s.photos.Create(ctx, userID, objectKey)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("create photo record: %w", err)
		}
		records = append(records, rec)
	}

	photos := make([]model.Photo, 0, len(records))
	for _, rec := range records {
		url, err := s.storage.PresignGet(ctx, rec.ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos = append(photos, model.Photo{
			ID:        rec.ID,
			UserID:    rec.UserID,
			URL:       url,
			Position:  rec.Position,
			CreatedAt: rec.CreatedAt,
		})
	}

	return photos, nil
}

func (s *Service) ListPhotos(ctx context.Context, userID int64) ([]model.Photo, error) {
	if s.photos == nil || s.storage == nil {
		return nil, fmt.Errorf("media dependencies are not configured")
	}
	if userID <= 0 {
		return nil, ErrValidation
	}

	records, err := s.photos.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list photo records: %w", err)
	}

	photos := make([]model.Photo, 0, len(records))
	for _, rec := range records {
		url, err := s.storage.PresignGet(ctx, rec.ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos = append(photos, model.Photo{
			ID:        rec.ID,
			UserID:    rec.UserID,
			URL:       url,
			Position:  rec.Position,
			CreatedAt: rec.CreatedAt,
		})
	}

	return photos, nil
}

// DeletePhoto hides the photo. The object stays in storage until the
// retention sweep picks it up.
func (s *Service) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	if s.photos == nil {
		return fmt.Errorf("media dependencies are not configured")
	}
	if userID <= 0 || photoID <= 0 {
		return ErrValidation
	}

	if err := s.photos.SoftDelete(ctx, userID, photoID); err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("soft delete photo: %w", err)
	}

	return nil
}

func (s *Service) checkUpload(upload Upload) error {
	if upload.Body == nil || upload.Size <= 0 {
		return ErrValidation
	}
	if upload.Size > s.options.MaxSizeBytes {
		return ErrTooLarge
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	for _, allowed := range s.options.AllowedMIME {
		if contentType == strings.ToLower(allowed) {
			return nil
		}
	}

	return ErrUnsupportedMIME
}

func buildObjectKey(userID int64, kind, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("users/%d/%s/%s%s", userID, kind, uuid.NewString(), ext)
}
