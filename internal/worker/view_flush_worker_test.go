package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeBuffer struct {
	pending  map[string]int64
	restored map[string]int64
}

func (f *fakeBuffer) Drain(ctx context.Context) (map[string]int64, error) {
	out := f.pending
	f.pending = map[string]int64{}
	return out, nil
}

func (f *fakeBuffer) Restore(ctx context.Context, counts map[string]int64) error {
	f.restored = counts
	return nil
}

type fakeStore struct {
	added map[string]int64
	err   error
}

func (f *fakeStore) AddViews(ctx context.Context, views map[string]int64) error {
	if f.err != nil {
		return f.err
	}
	f.added = views
	return nil
}

type fakeInvalidator struct{ n int }

func (f *fakeInvalidator) Invalidate(ctx context.Context) { f.n++ }

func TestViewFlushPersistsCounts(t *testing.T) {
	buffer := &fakeBuffer{pending: map[string]int64{"p1": 3, "p2": 1}}
	store := &fakeStore{}
	listings := &fakeInvalidator{}

	NewViewFlushWorker(buffer, store, listings, time.Minute).run(context.Background())

	if diff := cmp.Diff(map[string]int64{"p1": 3, "p2": 1}, store.added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if listings.n != 1 {
		t.Errorf("invalidations = %d, want 1", listings.n)
	}
}

func TestViewFlushRestoresOnFailure(t *testing.T) {
	buffer := &fakeBuffer{pending: map[string]int64{"p1": 2}}
	store := &fakeStore{err: errors.New("db down")}
	listings := &fakeInvalidator{}

	NewViewFlushWorker(buffer, store, listings, time.Minute).run(context.Background())

	if diff := cmp.Diff(map[string]int64{"p1": 2}, buffer.restored); diff != "" {
		t.Errorf("restored mismatch (-want +got):\n%s", diff)
	}
	if listings.n != 0 {
		t.Error("failed flush should not invalidate listings")
	}
}

func TestViewFlushNothingPending(t *testing.T) {
	store := &fakeStore{}
	NewViewFlushWorker(&fakeBuffer{}, store, nil, time.Minute).run(context.Background())
	if store.added != nil {
		t.Error("empty drain should not touch the store")
	}
}

func TestViewFlushStopsOnCancel(t *testing.T) {
	buffer := &fakeBuffer{pending: map[string]int64{"p1": 1}}
	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewViewFlushWorker(buffer, store, nil, time.Hour).Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	if store.added["p1"] != 1 {
		t.Error("shutdown should flush pending views")
	}
}
