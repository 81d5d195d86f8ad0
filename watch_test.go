package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newTestWatcher(t *testing.T, dirs ...string) *Watcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Watch.Debounce = "50ms"
	w, err := NewWatcher(dirs, cfg, batchOptions{Markdown: true}, zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestWatcher_RepairsSavedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(sub, 0755))

	w := newTestWatcher(t, dir)
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	ignored := writeFile(t, dir, "main.go", narrowBroken)
	top := writeFile(t, dir, "top.txt", narrowBroken)
	nested := writeFile(t, sub, "nested.txt", narrowBroken)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(top)
		return err == nil && string(data) == narrowFixed
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(nested)
		return err == nil && string(data) == narrowFixed
	}, 5*time.Second, 20*time.Millisecond)

	w.Stop()
	assert.False(t, w.IsWatching())

	assert.Equal(t, narrowBroken, readFile(t, ignored))
	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Repaired, 2)
	assert.Zero(t, stats.Errors)
	assert.Positive(t, stats.Events)
}

func TestWatcher_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newTestWatcher(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newTestWatcher(t, t.TempDir())
	w.Stop()
	assert.False(t, w.IsWatching())
	assert.Error(t, w.watcher.Add(t.TempDir()))
}

func TestWatcher_TickInterval(t *testing.T) {
	w := &Watcher{debounceDur: 50 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, w.tickInterval())
	w.debounceDur = 2 * time.Second
	assert.Equal(t, 100*time.Millisecond, w.tickInterval())
}
