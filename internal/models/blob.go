package models

import (
	"sync"

	"github.com/google/uuid"
)

// Blob is an exclusively owned handle to a locally materialized binary
// resource, the moral equivalent of an object URL. The owner must call
// Revoke before dropping or replacing the handle; a revoked handle keeps
// its ID but releases the bytes. The UI reads handles concurrently with
// cache mutations, so access is synchronized.
type Blob struct {
	ID string

	mu      sync.Mutex
	data    []byte
	revoked bool
}

func NewBlob(data []byte) *Blob {
	return &Blob{ID: uuid.New().String(), data: data}
}

// Bytes returns the underlying data, or nil once revoked.
func (b *Blob) Bytes() []byte {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

func (b *Blob) Revoked() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked
}

// Revoke releases the bytes. Idempotent.
func (b *Blob) Revoke() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
	b.data = nil
}
