package cache

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"psocial/client/internal/api"
	"psocial/client/internal/config"
	"psocial/client/internal/models"
)

// Kind names an entity store. The values double as the entity names used
// by the watch protocol.
type Kind string

const (
	KindUser       Kind = "USER"
	KindRoom       Kind = "ROOM"
	KindAttachment Kind = "ATTACHMENT"
)

// Evicted identifies an entry purged by a sweep.
type Evicted struct {
	Kind Kind
	ID   string
}

// Store is the memory-only entity cache. One entry per (kind, id); entries
// the UI is not looking at are reaped by the eviction sweep. All mutation
// paths re-check entity presence before writing, so an in-flight async
// completion (image refetch, profile fetch) cannot resurrect a deleted
// entry's fields.
type Store struct {
	mu sync.Mutex

	api    api.API
	selfID func() string
	settle time.Duration

	users       map[string]*models.User
	rooms       map[string]*models.Room
	attachments map[string]*models.AttachmentMetadata

	visible     map[Kind]map[string]struct{}
	disappeared map[Kind]map[string]time.Time

	fetching map[string]struct{}

	onVisible func(Kind, string)
}

func NewStore(client api.API, selfID func() string) *Store {
	return &Store{
		api:         client,
		selfID:      selfID,
		settle:      config.ImageSettleDelay,
		users:       make(map[string]*models.User),
		rooms:       make(map[string]*models.Room),
		attachments: make(map[string]*models.AttachmentMetadata),
		visible: map[Kind]map[string]struct{}{
			KindUser:       {},
			KindRoom:       {},
			KindAttachment: {},
		},
		disappeared: map[Kind]map[string]time.Time{
			KindUser:       {},
			KindRoom:       {},
			KindAttachment: {},
		},
		fetching: make(map[string]struct{}),
	}
}

// SetSettleDelay overrides the image refetch settling delay. Used by tests.
func (s *Store) SetSettleDelay(d time.Duration) {
	s.settle = d
}

// SetVisibilityListener registers the hook invoked whenever an id enters
// view. The subscription watcher uses it to stay level-triggered.
func (s *Store) SetVisibilityListener(fn func(Kind, string)) {
	s.onVisible = fn
}

/* --------------- READ ACCESSORS --------------- */

func (s *Store) GetUser(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (s *Store) GetRoom(id string) (models.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return models.Room{}, false
	}
	return *r, true
}

func (s *Store) GetAttachment(id string) (models.AttachmentMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[id]
	if !ok {
		return models.AttachmentMetadata{}, false
	}
	return *a, true
}

/* --------------- MUTATIONS --------------- */

// Upsert replaces-or-inserts an entity decoded from a CHANGE payload.
// An existing image handle survives the replacement; image bytes never
// travel inside change events.
func (s *Store) Upsert(kind Kind, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindUser:
		u := &models.User{}
		if err := json.Unmarshal(raw, u); err != nil || u.ID == "" {
			log.Println("Dropping unreadable USER insert")
			return
		}
		if prev, ok := s.users[u.ID]; ok {
			u.Image = prev.Image
		}
		s.users[u.ID] = u
	case KindRoom:
		r := &models.Room{}
		if err := json.Unmarshal(raw, r); err != nil || r.ID == "" {
			log.Println("Dropping unreadable ROOM insert")
			return
		}
		if prev, ok := s.rooms[r.ID]; ok {
			r.Image = prev.Image
		}
		s.rooms[r.ID] = r
	case KindAttachment:
		a := &models.AttachmentMetadata{}
		if err := json.Unmarshal(raw, a); err != nil || a.ID == "" {
			log.Println("Dropping unreadable ATTACHMENT insert")
			return
		}
		s.attachments[a.ID] = a
	}
}

// Patch merges partial fields onto an existing entry. A patch for an id
// that is not cached is a no-op; duplicate or late delivery is expected.
func (s *Store) Patch(kind Kind, id string, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target interface{}
	switch kind {
	case KindUser:
		u, ok := s.users[id]
		if !ok {
			log.Printf("No cached %s %q to patch", kind, id)
			return
		}
		target = u
	case KindRoom:
		r, ok := s.rooms[id]
		if !ok {
			log.Printf("No cached %s %q to patch", kind, id)
			return
		}
		target = r
	case KindAttachment:
		a, ok := s.attachments[id]
		if !ok {
			log.Printf("No cached %s %q to patch", kind, id)
			return
		}
		target = a
	default:
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		log.Printf("Dropping unreadable %s patch for %q", kind, id)
	}
}

// Remove deletes an entry and revokes its image handle. Removing an absent
// id is a no-op.
func (s *Store) Remove(kind Kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(kind, id)
}

func (s *Store) removeLocked(kind Kind, id string) {
	switch kind {
	case KindUser:
		u, ok := s.users[id]
		if !ok {
			log.Printf("No cached %s %q to remove", kind, id)
			return
		}
		u.Image.Revoke()
		delete(s.users, id)
	case KindRoom:
		r, ok := s.rooms[id]
		if !ok {
			log.Printf("No cached %s %q to remove", kind, id)
			return
		}
		r.Image.Revoke()
		delete(s.rooms, id)
	case KindAttachment:
		if _, ok := s.attachments[id]; !ok {
			log.Printf("No cached %s %q to remove", kind, id)
			return
		}
		delete(s.attachments, id)
	}
	delete(s.disappeared[kind], id)
}

// ReplaceImage handles UPDATE_IMAGE: the old handle is revoked right away,
// then the replacement is fetched after a short settling delay so a
// write-then-read race on the server cannot hand back the stale blob.
// Fetch failures leave the entity without an image.
func (s *Store) ReplaceImage(kind Kind, id string) {
	s.mu.Lock()
	switch kind {
	case KindUser:
		u, ok := s.users[id]
		if !ok {
			s.mu.Unlock()
			log.Printf("No cached %s %q for image update", kind, id)
			return
		}
		u.Image.Revoke()
		u.Image = nil
	case KindRoom:
		r, ok := s.rooms[id]
		if !ok {
			s.mu.Unlock()
			log.Printf("No cached %s %q for image update", kind, id)
			return
		}
		r.Image.Revoke()
		r.Image = nil
	default:
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go s.refetchImage(kind, id)
}

func (s *Store) refetchImage(kind Kind, id string) {
	time.Sleep(s.settle)

	var (
		data []byte
		err  error
	)
	switch kind {
	case KindUser:
		data, err = s.api.GetUserImage(id)
	case KindRoom:
		data, err = s.api.GetRoomImage(id)
	}
	if err != nil {
		log.Printf("Failed to fetch replacement image for %s %q: %v", kind, id, err)
		return
	}
	// No bytes means the image was cleared; the entity stays imageless.
	if len(data) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The entity may have been deleted while the fetch was in flight;
	// a DELETE that raced us wins.
	switch kind {
	case KindUser:
		if u, ok := s.users[id]; ok {
			u.Image = models.NewBlob(data)
		}
	case KindRoom:
		if r, ok := s.rooms[id]; ok {
			r.Image = models.NewBlob(data)
		}
	}
}

/* --------------- LAZY FETCH --------------- */

// FetchIfAbsent pulls the entity's profile through the HTTP collaborator if
// it is not already cached or being fetched. The fetch is never cancelled;
// a stale result simply waits for the sweeper.
func (s *Store) FetchIfAbsent(kind Kind, id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	key := string(kind) + ":" + id
	if _, ok := s.fetching[key]; ok {
		s.mu.Unlock()
		return
	}
	var present bool
	switch kind {
	case KindUser:
		_, present = s.users[id]
	case KindRoom:
		_, present = s.rooms[id]
	case KindAttachment:
		_, present = s.attachments[id]
	}
	if present {
		s.mu.Unlock()
		return
	}
	s.fetching[key] = struct{}{}
	s.mu.Unlock()

	go s.fetch(kind, id, key)
}

func (s *Store) fetch(kind Kind, id, key string) {
	defer func() {
		s.mu.Lock()
		delete(s.fetching, key)
		s.mu.Unlock()
	}()

	switch kind {
	case KindUser:
		u, err := s.api.GetUser(id)
		if err != nil {
			log.Printf("Failed to cache user data for %q: %v", id, err)
			return
		}
		// Profile pictures are optional; a miss is not an error.
		if pfp, err := s.api.GetUserImage(id); err == nil && len(pfp) > 0 {
			u.Image = models.NewBlob(pfp)
		}
		s.mu.Lock()
		if prev, ok := s.users[id]; ok && u.Image == nil {
			u.Image = prev.Image
		}
		s.users[id] = u
		s.mu.Unlock()
	case KindRoom:
		r, err := s.api.GetRoom(id)
		if err != nil {
			log.Printf("Failed to cache room data for %q: %v", id, err)
			return
		}
		s.mu.Lock()
		if prev, ok := s.rooms[id]; ok {
			r.Image = prev.Image
		}
		s.rooms[id] = r
		s.mu.Unlock()
	case KindAttachment:
		a, err := s.api.GetAttachmentMetadata(id)
		if err != nil {
			log.Printf("Failed to cache attachment data for %q: %v", id, err)
			return
		}
		s.mu.Lock()
		s.attachments[id] = a
		s.mu.Unlock()
	}
}

/* --------------- VISIBILITY --------------- */

// EnteredView marks an id as rendered, cancels any pending disappearance
// and lazily fetches the entity.
func (s *Store) EnteredView(kind Kind, id string) {
	s.mu.Lock()
	s.visible[kind][id] = struct{}{}
	delete(s.disappeared[kind], id)
	s.mu.Unlock()

	s.FetchIfAbsent(kind, id)
	if s.onVisible != nil {
		s.onVisible(kind, id)
	}
}

// LeftView marks an id as no longer rendered. The entry stays cached; a
// disappearance record is created (idempotently) for the sweeper.
func (s *Store) LeftView(kind Kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.visible[kind], id)
	if _, ok := s.disappeared[kind][id]; !ok {
		s.disappeared[kind][id] = time.Now()
	}
}

// Visible snapshots the ids currently rendered for a kind.
func (s *Store) Visible(kind Kind) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.visible[kind]))
	for id := range s.visible[kind] {
		ids = append(ids, id)
	}
	return ids
}

/* --------------- EVICTION --------------- */

// Sweep purges entries whose disappearance records have matured past the
// grace period and reports them so the watcher can unsubscribe. The
// authenticated user's own entry is exempt from eviction (but not from
// visibility tracking).
func (s *Store) Sweep(now time.Time, grace time.Duration) []Evicted {
	s.mu.Lock()
	defer s.mu.Unlock()

	self := ""
	if s.selfID != nil {
		self = s.selfID()
	}

	var evicted []Evicted
	for kind, records := range s.disappeared {
		for id, at := range records {
			if now.Sub(at) <= grace {
				continue
			}
			if kind == KindUser && id == self {
				continue
			}
			s.removeLocked(kind, id)
			delete(records, id)
			evicted = append(evicted, Evicted{Kind: kind, ID: id})
		}
	}
	return evicted
}
