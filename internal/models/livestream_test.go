// internal/models/livestream_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiveStreamTransitionsStrictlyForward(t *testing.T) {
	assert.True(t, LiveStreamStatusScheduled.CanTransitionTo(LiveStreamStatusActive))
	assert.True(t, LiveStreamStatusActive.CanTransitionTo(LiveStreamStatusEnded))

	// No skipping, no reversal.
	assert.False(t, LiveStreamStatusScheduled.CanTransitionTo(LiveStreamStatusEnded))
	assert.False(t, LiveStreamStatusActive.CanTransitionTo(LiveStreamStatusScheduled))
	assert.False(t, LiveStreamStatusEnded.CanTransitionTo(LiveStreamStatusActive))
	assert.False(t, LiveStreamStatusEnded.CanTransitionTo(LiveStreamStatusScheduled))
}

func TestLiveStreamStatusValid(t *testing.T) {
	assert.True(t, LiveStreamStatusScheduled.Valid())
	assert.True(t, LiveStreamStatusActive.Valid())
	assert.True(t, LiveStreamStatusEnded.Valid())
	assert.False(t, LiveStreamStatus("paused").Valid())
}
