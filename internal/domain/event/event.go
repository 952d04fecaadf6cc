// internal/domain/event/event.go
package event

import (
	"fmt"
	"time"

	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

// Kind identifies a domain event variant. The set of kinds is closed:
// only types in this package implement Event.
type Kind string

const KindTweetDeleted Kind = "TweetDeleted"

// Event is the closed union of domain events dispatched over the bus.
type Event interface {
	Kind() Kind
	OccurredAt() time.Time

	sealed()
}

// TweetDeleted is emitted right after a tweet row (and its media rows) has
// been committed-deleted. Immutable after construction; it is never
// persisted, so it carries no durability guarantee beyond the process.
type TweetDeleted struct {
	tweetID    string
	userID     string
	prefixes   []tmdom.Prefix
	occurredAt time.Time
}

// NewTweetDeleted builds the event. Prefixes are deduplicated and empty
// entries are dropped; order is irrelevant to consumers.
func NewTweetDeleted(tweetID, userID string, prefixes []tmdom.Prefix) TweetDeleted {
	seen := make(map[tmdom.Prefix]struct{}, len(prefixes))
	ps := make([]tmdom.Prefix, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		ps = append(ps, p)
	}
	return TweetDeleted{
		tweetID:    tweetID,
		userID:     userID,
		prefixes:   ps,
		occurredAt: time.Now().UTC(),
	}
}

func (e TweetDeleted) Kind() Kind            { return KindTweetDeleted }
func (e TweetDeleted) OccurredAt() time.Time { return e.occurredAt }
func (e TweetDeleted) sealed()               {}

func (e TweetDeleted) TweetID() string { return e.tweetID }
func (e TweetDeleted) UserID() string  { return e.userID }

// StoragePrefixes returns a copy; the event itself stays immutable.
func (e TweetDeleted) StoragePrefixes() []tmdom.Prefix {
	out := make([]tmdom.Prefix, len(e.prefixes))
	copy(out, e.prefixes)
	return out
}

// HasPrefixes reports whether there is anything to clean up.
func (e TweetDeleted) HasPrefixes() bool { return len(e.prefixes) > 0 }

// Summary is for logging only.
func (e TweetDeleted) Summary() string {
	return fmt.Sprintf("TweetDeleted tweetId=%s userId=%s prefixes=%d occurredAt=%s",
		e.tweetID, e.userID, len(e.prefixes), e.occurredAt.Format(time.RFC3339))
}
