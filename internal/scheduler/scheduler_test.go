package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu        sync.Mutex
	sessions  int
	pruned    []int
	pruneErr  error
	panicOnce bool
}

func (f *fakeStore) DeleteExpiredSessions() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions++
	if f.panicOnce {
		f.panicOnce = false
		panic("boom")
	}
	return 1, nil
}

func (f *fakeStore) CleanOldGenerations(days int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned = append(f.pruned, days)
	return 0, f.pruneErr
}

func TestTick(t *testing.T) {
	store := &fakeStore{}
	New(store, time.Minute, 90).tick()

	if store.sessions != 1 {
		t.Errorf("DeleteExpiredSessions calls = %d, want 1", store.sessions)
	}
	if len(store.pruned) != 1 || store.pruned[0] != 90 {
		t.Errorf("CleanOldGenerations calls = %v, want [90]", store.pruned)
	}
}

func TestTickWithoutRetention(t *testing.T) {
	store := &fakeStore{pruneErr: errors.New("unused")}
	New(store, time.Minute, 0).tick()

	if len(store.pruned) != 0 {
		t.Errorf("pruned with retention disabled: %v", store.pruned)
	}
}

func TestSafeTickRecovers(t *testing.T) {
	store := &fakeStore{panicOnce: true}
	s := New(store, time.Minute, 30)

	s.safeTick()
	s.safeTick()

	if store.sessions != 2 {
		t.Errorf("sessions calls = %d, want 2", store.sessions)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		New(store, time.Hour, 30).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
