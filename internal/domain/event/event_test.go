package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

func TestNewTweetDeletedDeduplicatesPrefixes(t *testing.T) {
	ev := NewTweetDeleted("t1", "u1", []tmdom.Prefix{
		"v1/public/users/u1/tweets/tA/a1",
		"v1/public/users/u1/tweets/tA/a1", // duplicate
		"",                                // empty, dropped
		"v1/public/users/u1/tweets/tA/a2",
	})

	require.True(t, ev.HasPrefixes())
	assert.Len(t, ev.StoragePrefixes(), 2)
	assert.Equal(t, KindTweetDeleted, ev.Kind())
	assert.Equal(t, "t1", ev.TweetID())
	assert.Equal(t, "u1", ev.UserID())
	assert.WithinDuration(t, time.Now().UTC(), ev.OccurredAt(), time.Minute)
}

func TestTweetDeletedWithoutPrefixes(t *testing.T) {
	ev := NewTweetDeleted("t1", "u1", nil)
	assert.False(t, ev.HasPrefixes())
	assert.Empty(t, ev.StoragePrefixes())
}

func TestStoragePrefixesReturnsCopy(t *testing.T) {
	ev := NewTweetDeleted("t1", "u1", []tmdom.Prefix{"v1/public/users/u1"})

	got := ev.StoragePrefixes()
	got[0] = "mutated"

	assert.Equal(t, []tmdom.Prefix{"v1/public/users/u1"}, ev.StoragePrefixes())
}

func TestSummaryMentionsIdsAndCount(t *testing.T) {
	ev := NewTweetDeleted("t1", "u1", []tmdom.Prefix{"v1/public/users/u1"})

	s := ev.Summary()
	assert.Contains(t, s, "t1")
	assert.Contains(t, s, "u1")
	assert.Contains(t, s, "prefixes=1")
}
