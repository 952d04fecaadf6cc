package tweet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTweet(t *testing.T) {
	now := time.Now()
	gym := " gym-1 "

	tw, err := New("t1", "u1", " climbing today ", &gym, []Media{{URL: "https://example.com/a.jpg"}}, now)
	require.NoError(t, err)

	assert.Equal(t, "climbing today", tw.Body)
	require.NotNil(t, tw.GymID)
	assert.Equal(t, "gym-1", *tw.GymID)
	assert.Equal(t, now.UTC(), tw.CreatedAt)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, tw.MediaURLs())
}

func TestNewTweetValidation(t *testing.T) {
	now := time.Now()

	_, err := New("", "u1", "body", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("t1", "", "body", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = New("t1", "u1", "", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidBody)

	_, err = New("t1", "u1", strings.Repeat("あ", MaxBodyLength+1), nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidBody)

	_, err = New("t1", "u1", "body", nil, nil, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidCreatedAt)
}
