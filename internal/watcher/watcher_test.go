package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_DebouncedNotification(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changed := make(chan struct{}, 4)
	w, err := New([]string{dir}, func(context.Context) { changed <- struct{}{} }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.yaml"), []byte{byte('a' + i)}, 0o600))
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	require.NoError(t, w.Stop())
}

func TestWatcher_RecursiveFollowsNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changed := make(chan struct{}, 8)
	w, err := New([]string{dir}, func(context.Context) { changed <- struct{}{} },
		WithRecursive(), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	nested := filepath.Join(dir, "v1.0.0", "components")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for new directory")
	}
}

func TestWatcher_FilterIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "routes.yaml")
	changed := make(chan struct{}, 4)
	w, err := New([]string{dir}, func(context.Context) { changed <- struct{}{} },
		WithFilter(FileFilter(target)), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))
	select {
	case <-changed:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for watched file")
	}
	require.NoError(t, w.Stop())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, func(context.Context) {})
	require.Error(t, err)
	_, err = New([]string{"."}, nil)
	require.Error(t, err)
}

func TestStop_WithoutStartIsNoop(t *testing.T) {
	w, err := New([]string{t.TempDir()}, func(context.Context) {})
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}
