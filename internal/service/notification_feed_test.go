package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

func TestNotificationFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewNotificationFeed(3, nil)
	for i := 0; i < 5; i++ {
		feed.Info("load", fmt.Sprintf("message %d", i))
	}
	assert.Equal(t, 3, feed.Len())

	notes := feed.Drain()
	require.Len(t, notes, 3)
	assert.Equal(t, "message 2", notes[0].Message)
	assert.Equal(t, "message 4", notes[2].Message)
	assert.Equal(t, 0, feed.Len())
	assert.Empty(t, feed.Drain())
}

func TestNotificationFeedLevels(t *testing.T) {
	feed := NewNotificationFeed(0, nil)
	feed.Info("a", "info")
	feed.Success("b", "success")
	feed.Warning("c", "warning")
	feed.Error("d", "error")

	notes := feed.Drain()
	require.Len(t, notes, 4)
	assert.Equal(t, []models.NotificationLevel{
		models.NotificationInfo,
		models.NotificationSuccess,
		models.NotificationWarning,
		models.NotificationError,
	}, []models.NotificationLevel{notes[0].Level, notes[1].Level, notes[2].Level, notes[3].Level})
	assert.Equal(t, "d", notes[3].Operation)
	assert.False(t, notes[0].At.IsZero())
}

func TestNotificationFeedNilSafe(t *testing.T) {
	var feed *NotificationFeed
	feed.Error("x", "y")
	assert.Nil(t, feed.Drain())
	assert.Equal(t, 0, feed.Len())
}
