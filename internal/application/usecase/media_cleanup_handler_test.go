package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/event"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/platform/eventbus"
)

type fakeQueue struct {
	mu    sync.Mutex
	calls [][]tmdom.Prefix
	err   error
}

func (q *fakeQueue) Enqueue(ctx context.Context, prefixes []tmdom.Prefix) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	cp := make([]tmdom.Prefix, len(prefixes))
	copy(cp, prefixes)
	q.calls = append(q.calls, cp)
	return nil
}

func (q *fakeQueue) enqueued() [][]tmdom.Prefix {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}

func TestHandleEnqueuesOncePerEvent(t *testing.T) {
	q := &fakeQueue{}
	h := NewMediaCleanupHandler(q)

	ev := evdom.NewTweetDeleted("t1", "u1", []tmdom.Prefix{
		"v1/public/users/u1/tweets/tA/a1",
		"v1/public/users/u1/tweets/tA/a2",
	})

	err := h.Handle(context.Background(), ev)
	require.NoError(t, err)

	calls := q.enqueued()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0], 2)
}

func TestHandleWithoutPrefixesSkipsQueue(t *testing.T) {
	q := &fakeQueue{}
	h := NewMediaCleanupHandler(q)

	err := h.Handle(context.Background(), evdom.NewTweetDeleted("t1", "u1", nil))
	require.NoError(t, err)
	assert.Empty(t, q.enqueued())
}

func TestHandlePropagatesEnqueueError(t *testing.T) {
	boom := errors.New("queue unavailable")
	h := NewMediaCleanupHandler(&fakeQueue{err: boom})

	ev := evdom.NewTweetDeleted("t1", "u1", []tmdom.Prefix{"v1/public/users/u1"})
	err := h.Handle(context.Background(), ev)
	assert.ErrorIs(t, err, boom)
}

func TestHandlerErrorReachesPublish(t *testing.T) {
	boom := errors.New("queue unavailable")
	h := NewMediaCleanupHandler(&fakeQueue{err: boom})

	bus := eventbus.New()
	h.Register(bus)

	ev := evdom.NewTweetDeleted("t1", "u1", []tmdom.Prefix{"v1/public/users/u1"})
	err := bus.Publish(context.Background(), ev)
	assert.ErrorIs(t, err, boom)
}
