package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

const purgeBatchSize = 100

type photoPurger interface {
	ListPurgeable(ctx context.Context, cutoff time.Time, limit int) ([]pgrepo.PhotoRecord, error)
	HardDelete(ctx context.Context, photoID int64) error
}

type objectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Job permanently removes soft-deleted photos once they age past the
// retention window, both the database row and the stored object.
type Job struct {
	photos    photoPurger
	storage   objectDeleter
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(photos photoPurger, storage objectDeleter, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		photos:    photos,
		storage:   storage,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.photos == nil || j.storage == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	photos, err := j.photos.ListPurgeable(ctx, cutoff, purgeBatchSize)
	if err != nil {
		return fmt.Errorf("list purgeable photos: %w", err)
	}

	if len(photos) == 0 {
		return nil
	}

	purged := 0
	for _, photo := range photos {
		if err := j.storage.Delete(ctx, photo.ObjectKey); err != nil {
			j.logger.Warn("failed to delete photo object from storage",
				zap.Error(err), zap.String("object_key", photo.ObjectKey))
			continue
		}
		if err := j.photos.HardDelete(ctx, photo.ID); err != nil {
			return fmt.Errorf("hard delete photo %d: %w", photo.ID, err)
		}
		purged++
	}

	j.logger.Info("photo purge completed", zap.Int("purged", purged))
	return nil
}

// RunLoop executes the job on a fixed interval until the context is done.
func (j *Job) RunLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("photo purge run failed", zap.Error(err))
			}
		}
	}
}
