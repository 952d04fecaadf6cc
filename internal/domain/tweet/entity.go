// internal/domain/tweet/entity.go
package tweet

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidID        = errors.New("tweet: invalid id")
	ErrInvalidUserID    = errors.New("tweet: invalid userId")
	ErrInvalidBody      = errors.New("tweet: invalid body")
	ErrInvalidCreatedAt = errors.New("tweet: invalid createdAt")

	// Repository 側で使うエラー
	ErrNotFound = errors.New("tweet: not found")
	ErrNotOwner = errors.New("tweet: not owner")
)

const MaxBodyLength = 280

// Media is one attached media entry (public object-storage URL).
type Media struct {
	URL string
}

// Tweet is a post on the bouldering SNS.
//
// Storage policy (recommended):
// - media objectPath: v1/public/users/{userId}/tweets/{yyyy}/{MM}/{tweetUuid}/{assetUuid}/<fileName>
// - Media.URL はその公開URL（https://storage.googleapis.com/<bucket>/<objectPath>）
type Tweet struct {
	ID     string
	UserID string
	// GymID is optional (nil = not tied to a gym).
	GymID *string
	Body  string
	Media []Media

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a Tweet (minimal validation).
func New(id, userID, body string, gymID *string, media []Media, createdAt time.Time) (Tweet, error) {
	t := Tweet{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		GymID:     trimPtr(gymID),
		Body:      strings.TrimSpace(body),
		Media:     media,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}
	if err := t.validate(); err != nil {
		return Tweet{}, err
	}
	return t, nil
}

func (t Tweet) validate() error {
	if t.ID == "" {
		return ErrInvalidID
	}
	if t.UserID == "" {
		return ErrInvalidUserID
	}
	if t.Body == "" || len([]rune(t.Body)) > MaxBodyLength {
		return ErrInvalidBody
	}
	if t.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

// MediaURLs returns the attached media URLs (may be empty).
func (t Tweet) MediaURLs() []string {
	out := make([]string, 0, len(t.Media))
	for _, m := range t.Media {
		u := strings.TrimSpace(m.URL)
		if u == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
