// Package testutil provides shared test helpers for setting up data
// directories, stores, and services.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/marwold/stickpad/internal/noteservice"
	"github.com/marwold/stickpad/internal/sse"
	"github.com/marwold/stickpad/internal/storage"
	"github.com/marwold/stickpad/internal/store"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDataDir creates a temporary data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// TestStore opens a store over a fresh temporary data directory.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	_, fs := TestDataDir(t)
	st, err := store.Open(fs, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// TestService builds a service over a fresh store with a fast timer tick,
// returning the broker so tests can observe published events.
func TestService(t *testing.T) (*noteservice.Service, *sse.Broker) {
	t.Helper()
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)
	svc := noteservice.New(TestStore(t), broker, Logger(),
		noteservice.WithTickInterval(10*time.Millisecond))
	t.Cleanup(svc.Close)
	return svc, broker
}
