// internal/application/usecase/media_cleanup_handler.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	evdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/event"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
	"github.com/murakami-kaito-dev/bouldering-app-sub001/internal/platform/eventbus"
)

// MediaCleanupHandler は TweetDeleted の唯一の subscriber。
// ドメインイベントを外部キューへの enqueue 1回に変換する。
type MediaCleanupHandler struct {
	queue tmdom.CleanupQueuePort
}

func NewMediaCleanupHandler(queue tmdom.CleanupQueuePort) *MediaCleanupHandler {
	return &MediaCleanupHandler{queue: queue}
}

// Register subscribes the handler on the bus.
func (h *MediaCleanupHandler) Register(bus *eventbus.Bus) {
	if bus == nil {
		return
	}
	bus.Subscribe(evdom.KindTweetDeleted, h.Handle)
}

// Handle translates one TweetDeleted into one Enqueue call.
//
// enqueue 失敗時は tweetId / userId / prefixes まで含めて記録した上で
// エラーを返す（Publish 経由で伝播する）。この時点で行削除は確定済み
// なので、伝播してもデータ整合性には影響しない。
func (h *MediaCleanupHandler) Handle(ctx context.Context, ev evdom.Event) error {
	deleted, ok := ev.(evdom.TweetDeleted)
	if !ok {
		return fmt.Errorf("media cleanup handler: unexpected event kind %q", ev.Kind())
	}

	if !deleted.HasPrefixes() {
		log.Printf("[media.cleanup] no media prefixes to clean (%s)", deleted.Summary())
		return nil
	}

	if h.queue == nil {
		return errors.New("media cleanup handler: queue not configured")
	}

	prefixes := deleted.StoragePrefixes()
	if err := h.queue.Enqueue(ctx, prefixes); err != nil {
		log.Printf("[media.cleanup] ERROR: enqueue failed tweetId=%s userId=%s prefixes=%v: %v",
			deleted.TweetID(), deleted.UserID(), prefixes, err)
		return err
	}

	log.Printf("[media.cleanup] scheduled %d cleanup task(s) (%s)", len(prefixes), deleted.Summary())
	return nil
}
