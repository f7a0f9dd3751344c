package service

import (
	"context"
	"sync"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
)

// keyedMutex hands out one lock per issue id. Entries are reference counted
// and removed once nobody holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[domain.IssueId]*keyedEntry
}

type keyedEntry struct {
	sem  chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[domain.IssueId]*keyedEntry)}
}

// Lock waits for the lock on id. It gives up with a ConflictError when ctx is
// done or timeout elapses first. A zero timeout waits on ctx alone.
func (k *keyedMutex) Lock(ctx context.Context, id domain.IssueId, timeout time.Duration) (unlock func(), err error) {
	k.mu.Lock()
	e, ok := k.locks[id]
	if !ok {
		e = &keyedEntry{sem: make(chan struct{}, 1)}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.release(id, e)
			})
		}, nil
	case <-ctx.Done():
		k.release(id, e)
		return nil, errors.Conflict("Request cancelled while waiting for the issue, retry")
	case <-expired:
		k.release(id, e)
		return nil, errors.Conflict("Issue is busy, retry")
	}
}

func (k *keyedMutex) release(id domain.IssueId, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, id)
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
