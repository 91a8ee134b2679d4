package ml

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestArtifactWatcherReportsWrites(t *testing.T) {
	path := writeArtifact(t, smallArtifact())

	watcher, err := NewArtifactWatcher(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan fsnotify.Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(e fsnotify.Event) { events <- e }, nil)
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(path+".tmp", []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	select {
	case <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change event for the artifact")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
