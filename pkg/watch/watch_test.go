package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	header := filepath.Join(dir, "api.h")
	require.NoError(t, os.WriteFile(header, []byte("int x;\n"), 0644))

	w, err := New([]string{header})
	require.NoError(t, err)
	return w, header
}

func TestEventFilter(t *testing.T) {
	w, header := newTestWatcher(t)
	defer w.watcher.Close()

	assert.True(t, w.shouldProcessEvent(fsnotify.Event{Name: header, Op: fsnotify.Write}))
	assert.False(t, w.shouldProcessEvent(fsnotify.Event{Name: header, Op: fsnotify.Chmod}))

	other := filepath.Join(filepath.Dir(header), "unrelated.txt")
	assert.False(t, w.shouldProcessEvent(fsnotify.Event{Name: other, Op: fsnotify.Write}))
}

func TestDrainClearsBatch(t *testing.T) {
	w, header := newTestWatcher(t)
	defer w.watcher.Close()

	w.accumulated[header] = true
	w.accumulated[header] = true

	files := w.drain()
	assert.Equal(t, []string{header}, files)
	assert.Empty(t, w.drain())
}

func TestRunDeliversChange(t *testing.T) {
	w, header := newTestWatcher(t)
	w.debounceTime = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(files []string) {
			select {
			case got <- files:
			default:
			}
		})
	}()

	// Give the watch loop a moment to start before touching the file.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(header, []byte("int y;\n"), 0644))

	select {
	case files := <-got:
		assert.Contains(t, files, header)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	require.NoError(t, <-done)
}
