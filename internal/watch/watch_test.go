package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitDir lays out the parts of a .git directory the watcher cares about.
func fakeGitDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), ".git")
	for _, sub := range []string{"refs/heads", "refs/tags", "objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	return dir
}

type runner struct {
	calls atomic.Int32
	done  chan error
	fired chan struct{}
}

func start(t *testing.T, w *RefWatcher) (*runner, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{done: make(chan error, 1), fired: make(chan struct{}, 16)}
	go func() {
		r.done <- w.Run(ctx, func(context.Context) error {
			r.calls.Add(1)
			r.fired <- struct{}{}
			return errors.New("logged and ignored")
		})
	}()
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	return r, cancel
}

func waitFired(t *testing.T, r *runner) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
}

func TestNewRefWatcher_WatchList(t *testing.T) {
	t.Parallel()

	gitDir := fakeGitDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "refs", "heads", "feature"), 0o755))

	w, err := NewRefWatcher(gitDir, 0, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.ElementsMatch(t, []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "heads", "feature"),
		filepath.Join(gitDir, "refs", "tags"),
	}, w.WatchList())
}

func TestNewRefWatcher_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := NewRefWatcher(filepath.Join(t.TempDir(), "nope"), 0, nil)
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	t.Parallel()

	gitDir := fakeGitDir(t)
	w, err := NewRefWatcher(gitDir, 0, nil)
	require.NoError(t, err)
	defer w.Close()

	tests := map[string]struct {
		event fsnotify.Event
		want  bool
	}{
		"HEAD written": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "HEAD"), Op: fsnotify.Write},
			want:  true,
		},
		"packed refs replaced": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "packed-refs"), Op: fsnotify.Create},
			want:  true,
		},
		"new tag": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "refs", "tags", "v1.0.0"), Op: fsnotify.Create},
			want:  true,
		},
		"nested branch": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "refs", "heads", "feature", "x"), Op: fsnotify.Rename},
			want:  true,
		},
		"lock file": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "refs", "heads", "main.lock"), Op: fsnotify.Create},
			want:  false,
		},
		"index": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "index"), Op: fsnotify.Write},
			want:  false,
		},
		"chmod only": {
			event: fsnotify.Event{Name: filepath.Join(gitDir, "HEAD"), Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestRun_TagCreatedTriggers(t *testing.T) {
	t.Parallel()

	gitDir := fakeGitDir(t)
	w, err := NewRefWatcher(gitDir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	r, _ := start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "refs", "tags", "v1.0.0"), []byte("abc\n"), 0o644))
	waitFired(t, r)
}

func TestRun_BurstIsDebounced(t *testing.T) {
	t.Parallel()

	gitDir := fakeGitDir(t)
	w, err := NewRefWatcher(gitDir, 300*time.Millisecond, nil)
	require.NoError(t, err)
	r, _ := start(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}
	waitFired(t, r)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestRun_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	gitDir := fakeGitDir(t)
	w, err := NewRefWatcher(gitDir, 10*time.Millisecond, nil)
	require.NoError(t, err)
	r, _ := start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "index"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "refs", "heads", "main.lock"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, r.calls.Load())
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	w, err := NewRefWatcher(fakeGitDir(t), 0, nil)
	require.NoError(t, err)
	r, cancel := start(t, w)

	cancel()
	select {
	case err := <-r.done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	w, err := NewRefWatcher(fakeGitDir(t), 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
