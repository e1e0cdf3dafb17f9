package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create book", "/c/bangla.json", fsnotify.Create, true},
		{"write book", "/c/bangla.json", fsnotify.Write, true},
		{"remove book", "/c/bangla.json", fsnotify.Remove, true},
		{"rename book", "/c/bangla.json", fsnotify.Rename, true},
		{"chmod book", "/c/bangla.json", fsnotify.Chmod, false},
		{"other file", "/c/notes.txt", fsnotify.Write, false},
		{"hidden file", "/c/.bangla.json", fsnotify.Write, false},
		{"editor swap", "/c/bangla.json.swp", fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(fsnotify.Event{Name: tt.path, Op: tt.op}))
		})
	}
}

func startWatcher(t *testing.T, dir string) (*atomic.Int32, context.CancelFunc, <-chan error) {
	t.Helper()

	var calls atomic.Int32
	w := NewWatcher(dir)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, func() { calls.Add(1) }) }()

	// Give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	return &calls, cancel, done
}

func TestWatcher_NotifiesOnBookChange(t *testing.T) {
	dir := t.TempDir()
	calls, cancel, done := startWatcher(t, dir)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bangla.json"), []byte(banglaBook), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	calls, cancel, _ := startWatcher(t, dir)
	defer cancel()

	path := filepath.Join(dir, "bangla.json")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(banglaBook), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	calls, cancel, _ := startWatcher(t, dir)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_MissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"))

	err := w.Watch(context.Background(), func() {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
