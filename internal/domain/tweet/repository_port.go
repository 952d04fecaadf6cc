// internal/domain/tweet/repository_port.go
package tweet

import (
	"context"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// Repository is the persistence port for tweets.
type Repository interface {
	Create(ctx context.Context, t Tweet) (Tweet, error)
	GetByID(ctx context.Context, id string) (Tweet, error)

	// DeleteAndCollectPrefixes deletes the tweet and its media rows in a
	// single transaction and returns the distinct storage prefixes derived
	// from the media URLs as they were *before* deletion.
	//
	// - tweet が存在しない場合は ErrNotFound
	// - userID が所有者でない場合は ErrNotOwner（行は消さない）
	// - プレフィックスを導出できない URL は黙って落とす（削除をブロックしない）
	DeleteAndCollectPrefixes(ctx context.Context, tweetID, userID string) ([]tmdom.Prefix, error)
}
