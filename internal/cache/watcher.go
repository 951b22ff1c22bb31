package cache

import (
	"sync"

	"psocial/client/internal/protocol"
)

// Sender enqueues an outbound socket frame. Sends against a closed socket
// are dropped by the implementation, never surfaced here.
type Sender interface {
	Send(eventType string, data interface{})
}

// Watcher keeps the server-side subscriptions converged with what the UI is
// showing. It is level-triggered: every visibility change and every sync
// tick re-scans the visible sets, so ids that appear late still get
// subscribed. At most one START_WATCHING is sent per id until it is evicted.
type Watcher struct {
	mu       sync.Mutex
	store    *Store
	sender   Sender
	watching map[Kind]map[string]struct{}
}

func NewWatcher(store *Store, sender Sender) *Watcher {
	w := &Watcher{
		store:  store,
		sender: sender,
		watching: map[Kind]map[string]struct{}{
			KindUser:       {},
			KindRoom:       {},
			KindAttachment: {},
		},
	}
	store.SetVisibilityListener(func(kind Kind, id string) {
		w.watch(kind, id)
	})
	return w
}

func (w *Watcher) watch(kind Kind, id string) {
	w.mu.Lock()
	if _, ok := w.watching[kind][id]; ok {
		w.mu.Unlock()
		return
	}
	w.watching[kind][id] = struct{}{}
	w.mu.Unlock()

	w.sender.Send(protocol.EventStartWatching, protocol.StartStopWatching{
		Entity: string(kind),
		ID:     id,
	})
}

// Sync re-scans the visible sets and subscribes anything not yet watched.
func (w *Watcher) Sync() {
	for _, kind := range []Kind{KindUser, KindRoom, KindAttachment} {
		for _, id := range w.store.Visible(kind) {
			w.watch(kind, id)
		}
	}
}

// Evicted unsubscribes an id purged by the sweeper.
func (w *Watcher) Evicted(kind Kind, id string) {
	w.mu.Lock()
	if _, ok := w.watching[kind][id]; !ok {
		w.mu.Unlock()
		return
	}
	delete(w.watching[kind], id)
	w.mu.Unlock()

	w.sender.Send(protocol.EventStopWatching, protocol.StartStopWatching{
		Entity: string(kind),
		ID:     id,
	})
}

// Watching reports whether an id currently has a live subscription.
func (w *Watcher) Watching(kind Kind, id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.watching[kind][id]
	return ok
}
