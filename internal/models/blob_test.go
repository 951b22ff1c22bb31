package models_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psocial/client/internal/models"
)

func TestBlobLifecycle(t *testing.T) {
	blob := models.NewBlob([]byte("bytes"))
	require.NotEmpty(t, blob.ID)
	assert.Equal(t, []byte("bytes"), blob.Bytes())
	assert.False(t, blob.Revoked())

	blob.Revoke()
	assert.True(t, blob.Revoked())
	assert.Nil(t, blob.Bytes())

	// Revoking twice is fine, the ID survives.
	id := blob.ID
	blob.Revoke()
	assert.Equal(t, id, blob.ID)
}

func TestBlobConcurrentReadAndRevoke(t *testing.T) {
	// The UI reads handles while the cache revokes them; run both under
	// the race detector.
	blob := models.NewBlob([]byte("bytes"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				blob.Bytes()
				blob.Revoked()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		blob.Revoke()
	}()
	wg.Wait()

	assert.True(t, blob.Revoked())
	assert.Nil(t, blob.Bytes())
}

func TestBlobNilHandle(t *testing.T) {
	var blob *models.Blob
	assert.True(t, blob.Revoked())
	assert.Nil(t, blob.Bytes())
	blob.Revoke()
}

func TestMediaOptionsApplyPartialPatch(t *testing.T) {
	var opts models.MediaOptions
	opts.UserMedia.Audio = true

	video := true
	opts.Apply(models.MediaOptionsPatch{UserMediaVideo: &video})

	assert.True(t, opts.UserMedia.Audio, "untouched fields survive")
	assert.True(t, opts.UserMedia.Video)
	assert.False(t, opts.DisplayMedia.Video)
}
