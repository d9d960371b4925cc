package retention_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/picket-dev/picket/pkg/domain"
	blobmock "github.com/picket-dev/picket/pkg/domain/artifact/blob/mock"
	artdb "github.com/picket-dev/picket/pkg/domain/artifact/db"
	dbmock "github.com/picket-dev/picket/pkg/domain/artifact/db/mock"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/utils/try"
)

func TestCollector_Collect(t *testing.T) {
	now := try.To(time.Parse(time.RFC3339, "2024-10-01T12:00:00Z")).OrFatal(t)
	ttl := 30 * 24 * time.Hour

	seed := func(index *dbmock.InMemoryIndex, age time.Duration, path string) domain.Artifact {
		a := try.To(index.Register(context.Background(), domain.Artifact{
			OwnerId: "u1", Path: path, DisplayName: path,
			SizeBytes: 1, CreatedAt: now.Add(-age),
		})).OrFatal(t)
		return a
	}

	t.Run("it reclaims expired artifacts and leaves fresh ones", func(t *testing.T) {
		index := dbmock.NewInMemory()
		old1 := seed(index, ttl+48*time.Hour, "uploads/u1/1_old1.jpg")
		old2 := seed(index, ttl+time.Hour, "uploads/u1/2_old2.jpg")
		fresh := seed(index, ttl-time.Hour, "uploads/u1/3_fresh.jpg")

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(context.Context, string) error { return nil }

		testee := retention.New(blobStore, index)
		outcome := try.To(testee.Collect(context.Background(), ttl, now)).OrFatal(t)

		expected := domain.CleanupOutcome{Deleted: 2}
		if !outcome.Equal(expected) {
			t.Errorf("outcome: got %+v, expected %+v", outcome, expected)
		}

		deleted := append([]string{}, blobStore.DeletedPaths...)
		sort.Strings(deleted)
		if len(deleted) != 2 || deleted[0] != old1.Path || deleted[1] != old2.Path {
			t.Errorf("unexpected blob deletions: %v", deleted)
		}

		if _, err := index.Get(context.Background(), fresh.Id); err != nil {
			t.Errorf("fresh artifact should survive: %v", err)
		}
		for _, gone := range []string{old1.Id, old2.Id} {
			if _, err := index.Get(context.Background(), gone); !errors.Is(err, domain.ErrMissing) {
				t.Errorf("expired artifact %s should be gone, got %v", gone, err)
			}
		}
	})

	t.Run("it pages through more items than one query returns", func(t *testing.T) {
		index := dbmock.NewInMemory()
		for i := 0; i < 7; i++ {
			seed(index, ttl+time.Duration(i+1)*time.Hour, "uploads/u1/page_"+string(rune('a'+i)))
		}

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(context.Context, string) error { return nil }

		testee := retention.New(blobStore, index, retention.WithPageSize(2))
		outcome := try.To(testee.Collect(context.Background(), ttl, now)).OrFatal(t)

		if outcome.Deleted != 7 || outcome.Failed != 0 {
			t.Errorf("got %+v, expected 7 deletions", outcome)
		}
		if len(index.Records) != 0 {
			t.Errorf("records left behind: %v", index.Records)
		}
	})

	t.Run("it treats a missing blob as reclaimed and removes the record", func(t *testing.T) {
		index := dbmock.NewInMemory()
		orphanRecord := seed(index, ttl+time.Hour, "uploads/u1/1_gone.jpg")

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(context.Context, string) error {
			return domain.ErrMissing
		}

		testee := retention.New(blobStore, index)
		outcome := try.To(testee.Collect(context.Background(), ttl, now)).OrFatal(t)

		if outcome.Deleted != 1 || outcome.Failed != 0 {
			t.Errorf("got %+v, expected one deletion", outcome)
		}
		if _, err := index.Get(context.Background(), orphanRecord.Id); !errors.Is(err, domain.ErrMissing) {
			t.Errorf("record should be gone, got %v", err)
		}
	})

	t.Run("it keeps going past a blob that will not delete", func(t *testing.T) {
		index := dbmock.NewInMemory()
		stuck := seed(index, ttl+2*time.Hour, "uploads/u1/1_stuck.jpg")
		ok := seed(index, ttl+time.Hour, "uploads/u1/2_ok.jpg")

		fakeErr := errors.New("fake error")
		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(_ context.Context, path string) error {
			if path == stuck.Path {
				return fakeErr
			}
			return nil
		}

		testee := retention.New(blobStore, index)
		outcome := try.To(testee.Collect(context.Background(), ttl, now)).OrFatal(t)

		if outcome.Deleted != 1 || outcome.Failed != 1 {
			t.Errorf("got %+v, expected one deletion and one failure", outcome)
		}
		if len(outcome.Errors) != 1 ||
			outcome.Errors[0].Path != stuck.Path ||
			!errors.Is(outcome.Errors[0], fakeErr) {
			t.Errorf("unexpected item errors: %v", outcome.Errors)
		}

		// the failed item stays for the next pass
		if _, err := index.Get(context.Background(), stuck.Id); err != nil {
			t.Errorf("failed item should keep its record: %v", err)
		}
		if _, err := index.Get(context.Background(), ok.Id); !errors.Is(err, domain.ErrMissing) {
			t.Errorf("reclaimed item should be gone, got %v", err)
		}
	})

	t.Run("it tallies a record delete failing after the blob is gone", func(t *testing.T) {
		expired := domain.Artifact{
			Id: "artifact-1", OwnerId: "u1", Path: "uploads/u1/1_x.jpg",
			DisplayName: "x.jpg", SizeBytes: 1, CreatedAt: now.Add(-ttl - time.Hour),
		}

		fakeErr := errors.New("fake error")
		index := dbmock.New()
		pages := [][]domain.Artifact{{expired}, {}}
		index.Impl.FindOlderThan = func(
			_ context.Context, _ time.Time, cursor artdb.Cursor, _ int,
		) ([]domain.Artifact, artdb.Cursor, error) {
			page := pages[0]
			pages = pages[1:]
			return page, cursor, nil
		}
		index.Impl.Delete = func(context.Context, string) error { return fakeErr }

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(context.Context, string) error { return nil }

		testee := retention.New(blobStore, index)
		outcome := try.To(testee.Collect(context.Background(), ttl, now)).OrFatal(t)

		if outcome.Deleted != 0 || outcome.Failed != 1 {
			t.Errorf("got %+v, expected one failure", outcome)
		}
		if len(outcome.Errors) != 1 || !errors.Is(outcome.Errors[0], fakeErr) {
			t.Errorf("unexpected item errors: %v", outcome.Errors)
		}
	})

	t.Run("it aborts the pass when the index query fails", func(t *testing.T) {
		fakeErr := errors.New("fake error")
		index := dbmock.New()
		index.Impl.FindOlderThan = func(
			_ context.Context, _ time.Time, cursor artdb.Cursor, _ int,
		) ([]domain.Artifact, artdb.Cursor, error) {
			return nil, cursor, fakeErr
		}

		testee := retention.New(blobmock.New(), index)
		if _, err := testee.Collect(context.Background(), ttl, now); !errors.Is(err, fakeErr) {
			t.Errorf("expected %v, got %v", fakeErr, err)
		}
	})

	t.Run("it stops between pages when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		index := dbmock.New()
		index.Impl.FindOlderThan = func(
			_ context.Context, _ time.Time, cursor artdb.Cursor, _ int,
		) ([]domain.Artifact, artdb.Cursor, error) {
			cancel() // next iteration must not query again
			return []domain.Artifact{{
				Id: "artifact-1", Path: "uploads/u1/1_x.jpg",
				CreatedAt: now.Add(-ttl - time.Hour),
			}}, cursor, nil
		}
		index.Impl.Delete = func(context.Context, string) error { return nil }

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(context.Context, string) error { return nil }

		testee := retention.New(blobStore, index)
		outcome, err := testee.Collect(ctx, ttl, now)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if outcome.Deleted != 1 {
			t.Errorf("the page in flight should be finished: %+v", outcome)
		}
	})
}

func TestCollector_CountExpired(t *testing.T) {
	now := try.To(time.Parse(time.RFC3339, "2024-10-01T12:00:00Z")).OrFatal(t)
	ttl := 24 * time.Hour

	t.Run("it counts records older than the cutoff", func(t *testing.T) {
		index := dbmock.NewInMemory()
		for i, age := range []time.Duration{
			ttl + time.Hour, ttl + time.Minute, ttl - time.Minute, time.Hour,
		} {
			try.To(index.Register(context.Background(), domain.Artifact{
				OwnerId: "u1", Path: "uploads/u1/" + string(rune('a'+i)),
				CreatedAt: now.Add(-age),
			})).OrFatal(t)
		}

		testee := retention.New(blobmock.New(), index)
		count := try.To(testee.CountExpired(context.Background(), ttl, now)).OrFatal(t)
		if count != 2 {
			t.Errorf("expected 2 expired, got %d", count)
		}
	})

	t.Run("it previews exactly what the next pass attempts", func(t *testing.T) {
		ctx := context.Background()
		index := dbmock.NewInMemory()
		seed := func(age time.Duration, path string) domain.Artifact {
			return try.To(index.Register(ctx, domain.Artifact{
				OwnerId: "u1", Path: path, DisplayName: path,
				SizeBytes: 1, CreatedAt: now.Add(-age),
			})).OrFatal(t)
		}
		seed(ttl+3*time.Hour, "uploads/u1/1_old1.jpg")
		seed(ttl+2*time.Hour, "uploads/u1/2_old2.jpg")
		stuck := seed(ttl+time.Hour, "uploads/u1/3_stuck.jpg")
		seed(time.Hour, "uploads/u1/4_fresh.jpg")

		blobStore := blobmock.New()
		blobStore.Impl.Delete = func(_ context.Context, path string) error {
			if path == stuck.Path {
				return errors.New("fake error")
			}
			return nil
		}
		testee := retention.New(blobStore, index)

		before := try.To(testee.CountExpired(ctx, ttl, now)).OrFatal(t)
		outcome := try.To(testee.Collect(ctx, ttl, now)).OrFatal(t)
		if before != outcome.Deleted+outcome.Failed {
			t.Errorf(
				"count before (%d) should equal deleted+failed (%d+%d)",
				before, outcome.Deleted, outcome.Failed,
			)
		}

		// only items that failed stay expired
		after := try.To(testee.CountExpired(ctx, ttl, now)).OrFatal(t)
		if after != outcome.Failed {
			t.Errorf("count after: got %d, expected %d", after, outcome.Failed)
		}
	})
}
