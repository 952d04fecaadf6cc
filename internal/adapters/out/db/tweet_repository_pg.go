// internal/adapters/out/db/tweet_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	tweetdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweet"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// TweetRepositoryPG は Tweet リポジトリの PostgreSQL 実装です。
//
// スキーマ:
//
//	tweets(id, user_id, gym_id, body, created_at, updated_at)
//	tweet_media(id, tweet_id, media_url, created_at)
type TweetRepositoryPG struct {
	DB      *sql.DB
	Deriver tmdom.PrefixDeriver
}

func NewTweetRepositoryPG(db *sql.DB, deriver tmdom.PrefixDeriver) *TweetRepositoryPG {
	return &TweetRepositoryPG{DB: db, Deriver: deriver}
}

// ========================================
// Create
// ========================================
func (r *TweetRepositoryPG) Create(ctx context.Context, t tweetdom.Tweet) (tweetdom.Tweet, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return tweetdom.Tweet{}, err
	}
	defer func() { _ = tx.Rollback() }()

	const insTweet = `
INSERT INTO tweets (id, user_id, gym_id, body, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	if _, err := tx.ExecContext(ctx, insTweet,
		t.ID, t.UserID, t.GymID, t.Body, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return tweetdom.Tweet{}, fmt.Errorf("tweet_repository_pg: insert tweet: %w", err)
	}

	const insMedia = `
INSERT INTO tweet_media (tweet_id, media_url, created_at)
VALUES ($1, $2, $3)
`
	for _, u := range t.MediaURLs() {
		if _, err := tx.ExecContext(ctx, insMedia, t.ID, u, t.CreatedAt); err != nil {
			return tweetdom.Tweet{}, fmt.Errorf("tweet_repository_pg: insert media: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return tweetdom.Tweet{}, err
	}
	return t, nil
}

// ========================================
// GetByID
// ========================================
func (r *TweetRepositoryPG) GetByID(ctx context.Context, id string) (tweetdom.Tweet, error) {
	const q = `
SELECT
  id,
  user_id,
  gym_id,
  body,
  created_at,
  updated_at
FROM tweets
WHERE id = $1
`
	var t tweetdom.Tweet
	var gymID sql.NullString
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.UserID, &gymID, &t.Body, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return tweetdom.Tweet{}, tweetdom.ErrNotFound
	}
	if err != nil {
		return tweetdom.Tweet{}, err
	}
	if gymID.Valid {
		t.GymID = &gymID.String
	}

	const qm = `
SELECT media_url
FROM tweet_media
WHERE tweet_id = $1
ORDER BY id
`
	rows, err := r.DB.QueryContext(ctx, qm, id)
	if err != nil {
		return tweetdom.Tweet{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return tweetdom.Tweet{}, err
		}
		t.Media = append(t.Media, tweetdom.Media{URL: u})
	}
	if err := rows.Err(); err != nil {
		return tweetdom.Tweet{}, err
	}
	return t, nil
}

// ========================================
// DeleteAndCollectPrefixes
// ========================================
//
// 1つのトランザクションで:
//  1. tweet の所有者を確認（FOR UPDATE でロック）
//  2. 削除前の media_url を読む
//  3. tweet_media / tweets を削除
//
// 返すプレフィックスは「削除前の media 行」から導出したもの。
func (r *TweetRepositoryPG) DeleteAndCollectPrefixes(ctx context.Context, tweetID, userID string) ([]tmdom.Prefix, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const sel = `
SELECT user_id
FROM tweets
WHERE id = $1
FOR UPDATE
`
	var ownerID string
	err = tx.QueryRowContext(ctx, sel, tweetID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tweetdom.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, tweetdom.ErrNotOwner
	}

	const selMedia = `
SELECT media_url
FROM tweet_media
WHERE tweet_id = $1
`
	rows, err := tx.QueryContext(ctx, selMedia, tweetID)
	if err != nil {
		return nil, err
	}
	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			rows.Close()
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tweet_media WHERE tweet_id = $1`, tweetID); err != nil {
		return nil, fmt.Errorf("tweet_repository_pg: delete media rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, tweetID); err != nil {
		return nil, fmt.Errorf("tweet_repository_pg: delete tweet row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("tweet_repository_pg: commit failed (%s): %w", pqErr.Code, err)
		}
		return nil, err
	}

	// 導出できない URL は黙って落とす（削除自体はもう確定している）
	prefixes := r.Deriver.DistinctFromURLs(urls)
	if len(urls) > 0 && len(prefixes) == 0 {
		log.Printf("[tweet_repository_pg] WARN: %d media url(s) yielded no cleanup prefix (tweetId=%s)", len(urls), tweetID)
	}
	return prefixes, nil
}
