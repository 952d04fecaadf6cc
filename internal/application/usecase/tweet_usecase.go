// internal/application/usecase/tweet_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	evdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/event"
	tweetdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweet"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/platform/eventbus"
)

// TweetUsecase は /tweets 系の操作を担当します。
type TweetUsecase struct {
	repo tweetdom.Repository
	bus  *eventbus.Bus

	now func() time.Time
}

func NewTweetUsecase(repo tweetdom.Repository, bus *eventbus.Bus) *TweetUsecase {
	return &TweetUsecase{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

func (u *TweetUsecase) WithNow(now func() time.Time) *TweetUsecase {
	u.now = now
	return u
}

// CreateTweetInput is the application-level input for Create.
type CreateTweetInput struct {
	UserID string
	GymID  *string
	Body   string
	Media  []tweetdom.Media
}

func (u *TweetUsecase) Create(ctx context.Context, in CreateTweetInput) (tweetdom.Tweet, error) {
	if u.repo == nil {
		return tweetdom.Tweet{}, errors.New("tweet repo not configured")
	}

	t, err := tweetdom.New(uuid.NewString(), in.UserID, in.Body, in.GymID, in.Media, u.now().UTC())
	if err != nil {
		return tweetdom.Tweet{}, err
	}
	return u.repo.Create(ctx, t)
}

func (u *TweetUsecase) GetByID(ctx context.Context, id string) (tweetdom.Tweet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tweetdom.Tweet{}, tweetdom.ErrInvalidID
	}
	if u.repo == nil {
		return tweetdom.Tweet{}, errors.New("tweet repo not configured")
	}
	return u.repo.GetByID(ctx, id)
}

// Delete removes the tweet owned by userID and schedules media cleanup.
//
// 行削除が確定した後に TweetDeleted を publish する。publish（= クリーン
// アップのスケジューリング）が失敗しても行削除は既に確定しているので、
// ログに残すだけでユーザー操作としては成功扱いにする（ロールバックも
// リトライもしない。リトライは外部キュー側の責務）。
func (u *TweetUsecase) Delete(ctx context.Context, tweetID, userID string) error {
	tweetID = strings.TrimSpace(tweetID)
	if tweetID == "" {
		return tweetdom.ErrInvalidID
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tweetdom.ErrInvalidUserID
	}
	if u.repo == nil {
		return errors.New("tweet repo not configured")
	}

	prefixes, err := u.repo.DeleteAndCollectPrefixes(ctx, tweetID, userID)
	if err != nil {
		return err
	}

	ev := evdom.NewTweetDeleted(tweetID, userID, prefixes)

	if u.bus == nil {
		log.Printf("[tweet.usecase] WARN: event bus not configured; media cleanup skipped (%s)", ev.Summary())
		return nil
	}
	if err := u.bus.Publish(ctx, ev); err != nil {
		// swallow: 詳細は subscriber 側で記録済み。ここでは結果だけ残す。
		log.Printf("[tweet.usecase] WARN: media cleanup scheduling failed (tweet already deleted): %v (%s)", err, ev.Summary())
	}
	return nil
}
