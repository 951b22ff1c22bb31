package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psocial/client/internal/cache"
	"psocial/client/internal/models"
	"psocial/client/internal/protocol"
)

func newWatchedStore(t *testing.T) (*cache.Store, *cache.Watcher, *fakeSender) {
	t.Helper()
	apiMock := new(MockAPI)
	apiMock.On("GetUser", "u1").Return(&models.User{ID: "u1"}, nil)
	apiMock.On("GetUserImage", "u1").Return(nil, assert.AnError)
	store := newStore(apiMock)
	sender := &fakeSender{}
	watcher := cache.NewWatcher(store, sender)
	return store, watcher, sender
}

func TestWatcher_SingleStartWatchingPerID(t *testing.T) {
	store, watcher, sender := newWatchedStore(t)

	// The same id entering view many times subscribes once.
	for i := 0; i < 5; i++ {
		store.EnteredView(cache.KindUser, "u1")
	}
	watcher.Sync()
	watcher.Sync()

	assert.Equal(t, 1, sender.count(protocol.EventStartWatching))
	assert.True(t, watcher.Watching(cache.KindUser, "u1"))
}

func TestWatcher_SyncPicksUpLateAppearances(t *testing.T) {
	store, watcher, sender := newWatchedStore(t)

	store.EnteredView(cache.KindUser, "u1")
	require.Equal(t, 1, sender.count(protocol.EventStartWatching))

	// Simulate a subscription lost before the sync tick: the level
	// triggered re-scan converges back to the visible set.
	store.LeftView(cache.KindUser, "u1")
	store.EnteredView(cache.KindUser, "u1")
	watcher.Sync()
	assert.Equal(t, 1, sender.count(protocol.EventStartWatching))
}

func TestWatcher_NoStopOnReappearWithinGrace(t *testing.T) {
	store, watcher, sender := newWatchedStore(t)

	store.EnteredView(cache.KindUser, "u1")
	store.LeftView(cache.KindUser, "u1")
	store.EnteredView(cache.KindUser, "u1")

	for _, ev := range store.Sweep(time.Now().Add(time.Minute), 30*time.Second) {
		watcher.Evicted(ev.Kind, ev.ID)
	}
	assert.Zero(t, sender.count(protocol.EventStopWatching))
	assert.True(t, watcher.Watching(cache.KindUser, "u1"))
}

func TestWatcher_EvictionStopsWatchingExactlyOnce(t *testing.T) {
	store, watcher, sender := newWatchedStore(t)

	store.EnteredView(cache.KindUser, "u1")
	store.LeftView(cache.KindUser, "u1")

	evicted := store.Sweep(time.Now().Add(time.Minute), 30*time.Second)
	require.Len(t, evicted, 1)
	watcher.Evicted(evicted[0].Kind, evicted[0].ID)
	watcher.Evicted(evicted[0].Kind, evicted[0].ID)

	assert.Equal(t, 1, sender.count(protocol.EventStopWatching))
	assert.False(t, watcher.Watching(cache.KindUser, "u1"))

	// Re-entering view after eviction subscribes again.
	store.EnteredView(cache.KindUser, "u1")
	assert.Equal(t, 2, sender.count(protocol.EventStartWatching))
}

func TestWatcher_FramesCarryEntityAndID(t *testing.T) {
	store, _, sender := newWatchedStore(t)

	store.EnteredView(cache.KindUser, "u1")
	frames := sender.sent()
	require.Len(t, frames, 1)
	assert.Equal(t, protocol.StartStopWatching{Entity: "USER", ID: "u1"}, frames[0].data)
}
