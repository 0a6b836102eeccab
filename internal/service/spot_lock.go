package service

import (
	"context"
	"sync"
)

// SpotLocker serializes work per parking spot. Different spots never wait on
// each other, and a spot's entry is dropped once nobody holds or waits for it.
type SpotLocker struct {
	mu    sync.Mutex
	locks map[string]*spotLock
}

type spotLock struct {
	sem  chan struct{}
	refs int
}

func NewSpotLocker() *SpotLocker {
	return &SpotLocker{locks: make(map[string]*spotLock)}
}

// Lock blocks until the spot is free or ctx is done. The returned func
// releases the lock and is safe to call more than once.
func (l *SpotLocker) Lock(ctx context.Context, spotID string) (func(), error) {
	l.mu.Lock()
	sl, ok := l.locks[spotID]
	if !ok {
		sl = &spotLock{sem: make(chan struct{}, 1)}
		l.locks[spotID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	select {
	case sl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(spotID, sl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-sl.sem
			l.release(spotID, sl)
		})
	}, nil
}

func (l *SpotLocker) release(spotID string, sl *spotLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(l.locks, spotID)
	}
}
