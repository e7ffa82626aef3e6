package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

func TestListChannelsOrdersByNumber(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveChannel(3, 7074000, radiomodel.ModeLSB))
	require.NoError(t, store.SaveChannel(1, 14074000, radiomodel.ModeUSB))
	require.NoError(t, store.SaveChannel(2, 144390000, radiomodel.ModeFM))

	channels, err := store.ListChannels()
	require.NoError(t, err)
	require.Len(t, channels, 3)
	assert.Equal(t, 1, channels[0].Number)
	assert.Equal(t, 2, channels[1].Number)
	assert.Equal(t, 3, channels[2].Number)
}

func TestDeleteChannel(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveChannel(1, 14074000, radiomodel.ModeUSB))
	require.NoError(t, store.DeleteChannel(1))

	_, _, err := store.LoadChannel(1)
	assert.Error(t, err)
}

func TestRecentSessionEventsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.LogSessionEvent("rigctl_connect", "client-a"))
	require.NoError(t, store.LogSessionEvent("rigctl_connect", "client-b"))

	events, err := store.RecentSessionEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "client-b", events[0].Detail)
	assert.Equal(t, "client-a", events[1].Detail)
}

func TestRecentSessionEventsRespectsLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.LogSessionEvent("heartbeat", ""))
	}

	events, err := store.RecentSessionEvents(2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
