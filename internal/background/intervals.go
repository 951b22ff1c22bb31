package background

import (
	"sync"
	"time"

	"psocial/client/internal/cache"
	"psocial/client/internal/config"
	"psocial/client/internal/session"
	"psocial/client/internal/socket"
)

// Intervals owns every periodic background process of the sync layer: the
// eviction sweep, the watch sync, the socket keep-alive and the token
// refresh. One Stop tears them all down together so no ticker outlives the
// session.
type Intervals struct {
	store   *cache.Store
	watcher *cache.Watcher
	conn    *socket.Conn
	session *session.Session

	sweepEvery time.Duration
	syncEvery  time.Duration
	pingEvery  time.Duration
	grace      time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewIntervals(store *cache.Store, watcher *cache.Watcher, conn *socket.Conn, sess *session.Session) *Intervals {
	return &Intervals{
		store:      store,
		watcher:    watcher,
		conn:       conn,
		session:    sess,
		sweepEvery: config.EvictionSweepInterval,
		syncEvery:  config.WatchSyncInterval,
		pingEvery:  config.KeepAliveInterval,
		grace:      config.DisappearedGracePeriod,
		stop:       make(chan struct{}),
	}
}

// SetIntervals overrides the timer periods. Used by tests.
func (i *Intervals) SetIntervals(sweep, sync, ping, grace time.Duration) {
	i.sweepEvery = sweep
	i.syncEvery = sync
	i.pingEvery = ping
	i.grace = grace
}

// Start launches the background loops.
func (i *Intervals) Start() {
	i.wg.Add(4)
	go i.sweepLoop()
	go i.syncLoop()
	go i.pingLoop()
	go i.refreshLoop()
}

func (i *Intervals) sweepLoop() {
	defer i.wg.Done()
	ticker := time.NewTicker(i.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-i.stop:
			return
		case now := <-ticker.C:
			for _, ev := range i.store.Sweep(now, i.grace) {
				i.watcher.Evicted(ev.Kind, ev.ID)
			}
		}
	}
}

func (i *Intervals) syncLoop() {
	defer i.wg.Done()
	ticker := time.NewTicker(i.syncEvery)
	defer ticker.Stop()
	for {
		select {
		case <-i.stop:
			return
		case <-ticker.C:
			i.watcher.Sync()
		}
	}
}

func (i *Intervals) pingLoop() {
	defer i.wg.Done()
	ticker := time.NewTicker(i.pingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-i.stop:
			return
		case <-ticker.C:
			if i.conn.Connected() {
				i.conn.SendRaw([]byte("PING"))
			}
		}
	}
}

// refreshLoop re-arms itself from the token's remaining lifetime after each
// renewal instead of ticking at a fixed rate.
func (i *Intervals) refreshLoop() {
	defer i.wg.Done()
	timer := time.NewTimer(i.session.RefreshIn())
	defer timer.Stop()
	for {
		select {
		case <-i.stop:
			return
		case <-timer.C:
			if i.session.Authenticated() {
				i.session.Refresh()
			}
			timer.Reset(i.session.RefreshIn())
		}
	}
}

// Stop tears down every loop and waits for them to exit.
func (i *Intervals) Stop() {
	i.once.Do(func() {
		close(i.stop)
	})
	i.wg.Wait()
}
