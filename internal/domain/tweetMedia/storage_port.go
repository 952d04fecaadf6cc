// internal/domain/tweetMedia/storage_port.go
package tweetMedia

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by DeleteObject when the object is already
// gone. Callers must treat it as success (idempotent delete).
var ErrObjectNotFound = errors.New("tweetMedia: object not found")

// ObjectStoragePort is the object-storage capability consumed by the
// media-cleanup worker.
//
// ✅ Single bucket policy:
// - bucket はアダプタ側が保持する（ここでは objectPath のみ扱う）
type ObjectStoragePort interface {
	// ListObjectPaths lists object paths under prefix.
	ListObjectPaths(ctx context.Context, prefix Prefix) ([]string, error)

	// DeleteObject deletes a single object by path.
	// Returns ErrObjectNotFound when the object does not exist.
	DeleteObject(ctx context.Context, objectPath string) error
}

// CleanupQueuePort schedules durable per-prefix deletion tasks on the
// external task queue (at-least-once delivery; the queue owns retries).
type CleanupQueuePort interface {
	// Enqueue submits one independently-retryable task per distinct prefix.
	// Empty input is a no-op. Already-submitted sibling tasks are not
	// cancelled when a later submission fails.
	Enqueue(ctx context.Context, prefixes []Prefix) error
}
