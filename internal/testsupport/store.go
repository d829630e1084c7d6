package testsupport

import (
	"context"
	"testing"
	"time"

	"arbor/internal/config"
	"arbor/internal/content"
)

// MustOpenStore opens a content.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *content.Store {
	t.Helper()

	store, err := content.Open(cfg)
	if err != nil {
		t.Fatalf("content.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewPhoto records a picture for tests using the provided store.
func NewPhoto(t testing.TB, store *content.Store, filename string, created time.Time) int64 {
	t.Helper()

	nodeID, _, err := store.UpsertPhoto(context.Background(), content.UpsertParams{
		Filename:     filename,
		OrigFilename: filename,
		Title:        "Nieuwe foto",
		Created:      created,
	})
	if err != nil {
		t.Fatalf("store.UpsertPhoto: %v", err)
	}
	return nodeID
}
