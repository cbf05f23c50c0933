package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Content{}.Expired(now), "no expiry never expires")

	past := now.Add(-time.Minute)
	assert.True(t, Content{ExpiresAt: &past}.Expired(now))

	future := now.Add(time.Minute)
	assert.False(t, Content{ExpiresAt: &future}.Expired(now))

	exact := now
	assert.True(t, Content{ExpiresAt: &exact}.Expired(now), "expiry boundary counts as expired")
}
