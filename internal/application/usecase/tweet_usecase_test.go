package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tweetdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweet"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/platform/eventbus"
)

type fakeTweetRepo struct {
	prefixes []tmdom.Prefix
	err      error

	deletedTweetID string
	deletedUserID  string
}

func (r *fakeTweetRepo) Create(ctx context.Context, t tweetdom.Tweet) (tweetdom.Tweet, error) {
	return t, nil
}

func (r *fakeTweetRepo) GetByID(ctx context.Context, id string) (tweetdom.Tweet, error) {
	return tweetdom.Tweet{}, tweetdom.ErrNotFound
}

func (r *fakeTweetRepo) DeleteAndCollectPrefixes(ctx context.Context, tweetID, userID string) ([]tmdom.Prefix, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.deletedTweetID = tweetID
	r.deletedUserID = userID
	return r.prefixes, nil
}

func TestDeletePublishesOneEventAndSchedulesCleanup(t *testing.T) {
	repo := &fakeTweetRepo{prefixes: []tmdom.Prefix{
		"v1/public/users/u1/tweets/2025/09/pA/a1",
		"v1/public/users/u1/tweets/2025/09/pA/a2",
	}}
	q := &fakeQueue{}

	bus := eventbus.New()
	NewMediaCleanupHandler(q).Register(bus)

	uc := NewTweetUsecase(repo, bus)
	require.NoError(t, uc.Delete(context.Background(), "pA", "u1"))

	assert.Equal(t, "pA", repo.deletedTweetID)
	assert.Equal(t, "u1", repo.deletedUserID)

	// ちょうど1回の enqueue に両 prefix が載っていること
	calls := q.enqueued()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, repo.prefixes, calls[0])
}

func TestDeleteEndToEndCleansBothPrefixes(t *testing.T) {
	const (
		p1 = "v1/public/users/u1/tweets/2025/09/pA/a1"
		p2 = "v1/public/users/u1/tweets/2025/09/pA/a2"
	)
	repo := &fakeTweetRepo{prefixes: []tmdom.Prefix{p1, p2}}
	q := &fakeQueue{}

	bus := eventbus.New()
	NewMediaCleanupHandler(q).Register(bus)

	uc := NewTweetUsecase(repo, bus)
	require.NoError(t, uc.Delete(context.Background(), "pA", "u1"))

	calls := q.enqueued()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 2)

	// キューのワーカー呼び出しを模倣: タスクごとに 1 prefix を処理
	store := newFakeObjectStore(
		p1+"/original.jpeg",
		p2+"/original.jpeg",
	)
	worker := NewMediaCleanupUsecase(store)
	for _, p := range calls[0] {
		_, err := worker.DeleteByPrefix(context.Background(), p)
		require.NoError(t, err)
	}
	assert.Zero(t, store.remaining())
}

func TestDeleteSwallowsSchedulingFailure(t *testing.T) {
	repo := &fakeTweetRepo{prefixes: []tmdom.Prefix{"v1/public/users/u1/tweets/t1/a1"}}

	bus := eventbus.New()
	NewMediaCleanupHandler(&fakeQueue{err: errors.New("queue down")}).Register(bus)

	uc := NewTweetUsecase(repo, bus)

	// 行削除は確定しているのでユーザー操作としては成功
	assert.NoError(t, uc.Delete(context.Background(), "t1", "u1"))
	assert.Equal(t, "t1", repo.deletedTweetID)
}

func TestDeletePropagatesRepositoryError(t *testing.T) {
	repo := &fakeTweetRepo{err: tweetdom.ErrNotOwner}
	uc := NewTweetUsecase(repo, eventbus.New())

	err := uc.Delete(context.Background(), "t1", "intruder")
	assert.ErrorIs(t, err, tweetdom.ErrNotOwner)
}

func TestDeleteValidatesInput(t *testing.T) {
	uc := NewTweetUsecase(&fakeTweetRepo{}, eventbus.New())

	assert.ErrorIs(t, uc.Delete(context.Background(), "", "u1"), tweetdom.ErrInvalidID)
	assert.ErrorIs(t, uc.Delete(context.Background(), "t1", ""), tweetdom.ErrInvalidUserID)
}
