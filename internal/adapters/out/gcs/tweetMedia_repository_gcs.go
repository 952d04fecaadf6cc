// internal/adapters/out/gcs/tweetMedia_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// TweetMediaRepositoryGCS is the GCS adapter for tweet media objects.
//
// ✅ Recommended layout (single bucket):
// - bucket: bouldering-app-media
// - objectPath: v1/public/users/{userId}/tweets/{yyyy}/{MM}/{tweetUuid}/{assetUuid}/<fileName>
//
// Public access:
//   - If the bucket has IAM "allUsers: Storage Object Viewer" (uniform access),
//     uploaded objects become publicly readable without per-object ACL changes.
type TweetMediaRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewTweetMediaRepositoryGCS(client *storage.Client, bucket string) *TweetMediaRepositoryGCS {
	return &TweetMediaRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

func (r *TweetMediaRepositoryGCS) bucket() (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("tweetMedia_repository_gcs: storage client is nil")
	}
	b := strings.TrimSpace(r.Bucket)
	if b == "" {
		return nil, errors.New("tweetMedia_repository_gcs: bucket is empty")
	}
	return r.Client.Bucket(b), nil
}

// ListObjectPaths lists object paths under the given prefix.
// Use this for the media-cleanup worker (delete tweet cascade).
func (r *TweetMediaRepositoryGCS) ListObjectPaths(ctx context.Context, prefix tmdom.Prefix) ([]string, error) {
	bh, err := r.bucket()
	if err != nil {
		return nil, err
	}
	p := strings.TrimSpace(prefix.String())

	it := bh.Objects(ctx, &storage.Query{
		Prefix: p,
	})

	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tweetMedia_repository_gcs: list %q: %w", p, err)
		}
		if attrs == nil || strings.TrimSpace(attrs.Name) == "" {
			continue
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

// DeleteObject deletes one object; already-missing objects map to
// tweetMedia.ErrObjectNotFound so callers can treat them as success.
func (r *TweetMediaRepositoryGCS) DeleteObject(ctx context.Context, objectPath string) error {
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return errors.New("tweetMedia_repository_gcs: objectPath is empty")
	}
	if err := bh.Object(obj).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return tmdom.ErrObjectNotFound
		}
		return fmt.Errorf("tweetMedia_repository_gcs: delete %q: %w", obj, err)
	}
	return nil
}
