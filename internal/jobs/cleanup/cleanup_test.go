package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/nkarpovich/duet-backend/internal/repo/postgres"
)

type fakePhotoPurger struct {
	photos  []pgrepo.PhotoRecord
	deleted []int64
}

func (f *fakePhotoPurger) ListPurgeable(_ context.Context, cutoff time.Time, _ int) ([]pgrepo.PhotoRecord, error) {
	items := make([]pgrepo.PhotoRecord, 0)
	for _, photo := range f.photos {
		if photo.DeletedAt != nil && photo.DeletedAt.Before(cutoff) {
			items = append(items, photo)
		}
	}
	return items, nil
}

func (f *fakePhotoPurger) HardDelete(_ context.Context, photoID int64) error {
	f.deleted = append(f.deleted, photoID)
	return nil
}

type fakeObjectDeleter struct {
	deleted []string
	failKey string
}

func (f *fakeObjectDeleter) Delete(_ context.Context, key string) error {
	if key == f.failKey {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func ptrTime(v time.Time) *time.Time {
	value := v.UTC()
	return &value
}

func TestRunPurgesOnlyExpiredPhotos(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	purger := &fakePhotoPurger{
		photos: []pgrepo.PhotoRecord{
			{ID: 1, ObjectKey: "users/1/photos/old", DeletedAt: ptrTime(now.Add(-31 * 24 * time.Hour))},
			{ID: 2, ObjectKey: "users/1/photos/fresh", DeletedAt: ptrTime(now.Add(-1 * 24 * time.Hour))},
			{ID: 3, ObjectKey: "users/1/photos/active"},
		},
	}
	storage := &fakeObjectDeleter{}

	job := New(purger, storage, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if len(purger.deleted) != 1 || purger.deleted[0] != 1 {
		t.Fatalf("expected only photo 1 hard-deleted, got %v", purger.deleted)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "users/1/photos/old" {
		t.Fatalf("expected only the old object removed, got %v", storage.deleted)
	}
}

func TestRunSkipsRowWhenStorageDeleteFails(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	purger := &fakePhotoPurger{
		photos: []pgrepo.PhotoRecord{
			{ID: 1, ObjectKey: "users/1/photos/stuck", DeletedAt: ptrTime(now.Add(-40 * 24 * time.Hour))},
			{ID: 2, ObjectKey: "users/2/photos/gone", DeletedAt: ptrTime(now.Add(-40 * 24 * time.Hour))},
		},
	}
	storage := &fakeObjectDeleter{failKey: "users/1/photos/stuck"}

	job := New(purger, storage, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if len(purger.deleted) != 1 || purger.deleted[0] != 2 {
		t.Fatalf("row for failed object must survive for a later retry, got %v", purger.deleted)
	}
}

func TestRunNoopWithoutDependencies(t *testing.T) {
	job := New(nil, nil, time.Hour, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("noop run should not fail: %v", err)
	}
}
