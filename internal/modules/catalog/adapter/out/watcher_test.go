package out_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogout "pmdrill/internal/modules/catalog/adapter/out"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n"), 0o644))

	var reloads atomic.Int32
	w, err := catalogout.NewWatcher(path, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, nil, catalogout.WithWatchDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n# edit\n"), 0o644))

	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcherRequiresPathAndCallback(t *testing.T) {
	t.Parallel()
	_, err := catalogout.NewWatcher(" ", func(context.Context) error { return nil }, nil)
	require.Error(t, err)
	_, err = catalogout.NewWatcher("catalog.yaml", nil, nil)
	require.Error(t, err)
}
