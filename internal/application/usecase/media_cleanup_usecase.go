// internal/application/usecase/media_cleanup_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// MediaCleanupUsecase はワーカー側の処理本体:
// prefix 配下のオブジェクトを列挙して全部消す。
//
// 同じ prefix のタスクが重複・並行して届いても安全（冪等）:
// - 列挙結果ゼロは成功
// - 個別削除の not-found も成功
type MediaCleanupUsecase struct {
	store tmdom.ObjectStoragePort
}

func NewMediaCleanupUsecase(store tmdom.ObjectStoragePort) *MediaCleanupUsecase {
	return &MediaCleanupUsecase{store: store}
}

// DeleteByPrefix deletes every object whose path starts with prefix.
//
// 返り値 deleted は実際に消した数。個別削除の失敗（not-found 以外）は
// ログに残すだけでバッチは止めない。列挙自体の失敗だけが error になり、
// 呼び出し側（タスクハンドラ）が 5xx でキューに再試行させる。
func (u *MediaCleanupUsecase) DeleteByPrefix(ctx context.Context, prefix tmdom.Prefix) (deleted int, err error) {
	p := tmdom.Prefix(strings.TrimSpace(prefix.String()))
	if p == "" {
		return 0, errors.New("media cleanup: prefix is empty")
	}
	if u.store == nil {
		return 0, errors.New("media cleanup: object storage not configured")
	}

	paths, err := u.store.ListObjectPaths(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("media cleanup: list objects under %q: %w", p, err)
	}
	if len(paths) == 0 {
		log.Printf("[media.worker] nothing under prefix %q (already cleaned?)", p)
		return 0, nil
	}

	var (
		wg       sync.WaitGroup
		nDeleted int64
		nFailed  int64
	)
	for _, objPath := range paths {
		objPath := objPath
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := u.store.DeleteObject(ctx, objPath); {
			case err == nil:
				atomic.AddInt64(&nDeleted, 1)
			case errors.Is(err, tmdom.ErrObjectNotFound):
				// 並行/再試行された別タスクが先に消したケース。成功扱い。
			default:
				atomic.AddInt64(&nFailed, 1)
				log.Printf("[media.worker] WARN: delete %q failed: %v", objPath, err)
			}
		}()
	}
	wg.Wait()

	log.Printf("[media.worker] prefix %q: deleted=%d failed=%d of %d object(s)",
		p, nDeleted, nFailed, len(paths))
	return int(nDeleted), nil
}
