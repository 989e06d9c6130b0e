package watch

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagandtake/tagandtake-server/internal/logger"
)

const testDebounce = 50 * time.Millisecond

func setupTestWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()

	w, err := New(logger.Discard().Logger, Options{Debounce: testDebounce})
	require.NoError(t, err)

	for _, f := range files {
		require.NoError(t, w.Add(f))
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, w.Stop())
	})
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitForEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(wait):
	}
}

func TestWatcher_ChangeIsDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.json")
	writeFile(t, path, `{}`)

	w := setupTestWatcher(t, path)

	for i := range 5 {
		writeFile(t, path, `{"n": `+strconv.Itoa(i)+`}`)
	}

	ev := waitForEvent(t, w)
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, Event{Type: EventChanged, Path: abs}, ev)

	assertNoEvent(t, w, 4*testDebounce)
}

func TestWatcher_Removed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.json")
	writeFile(t, path, `{}`)

	w := setupTestWatcher(t, path)

	require.NoError(t, os.Remove(path))

	ev := waitForEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_IgnoresUnwatchedSiblings(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.json")
	other := filepath.Join(dir, "other.json")
	writeFile(t, watched, `{}`)
	writeFile(t, other, `{}`)

	w := setupTestWatcher(t, watched)

	writeFile(t, other, `{"changed": true}`)

	assertNoEvent(t, w, 4*testDebounce)
}

func TestWatcher_AddErrors(t *testing.T) {
	w, err := New(logger.Discard().Logger, Options{})
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, DefaultDebounce, w.opts.Debounce)
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, w.Add(t.TempDir()))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(logger.Discard().Logger, Options{Debounce: testDebounce})
	require.NoError(t, err)

	w.Start(context.Background())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "changed", EventChanged.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "EventType(7)", EventType(7).String())
}
