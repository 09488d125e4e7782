package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/hermes/pkg/coordinator"
)

func newTestCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	c, err := coordinator.New("root", nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Close)
	return c
}

func TestSeparateWords(t *testing.T) {
	key, value, ok := separateWords("/root/status running")
	require.True(t, ok)
	assert.Equal(t, "/root/status", key)
	assert.Equal(t, "running", value)

	_, _, ok = separateWords("")
	assert.False(t, ok)

	_, _, ok = separateWords(" /root/status running")
	assert.False(t, ok)

	_, _, ok = separateWords("/root/status")
	assert.False(t, ok)

	key, value, ok = separateWords("/root/note   hello world")
	require.True(t, ok)
	assert.Equal(t, "/root/note", key)
	assert.Equal(t, "hello world", value)
}

func TestLoadData(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("/root/a 1\n/root/b 2\n\nmalformed\n"), 0o644))

	require.NoError(t, LoadData(ctx, c, path))

	v, err := c.Get(ctx, "/root/a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	v, err = c.Get(ctx, "/root/b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestLoadDataEmptyPathIsNoOp(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, LoadData(context.Background(), c, ""))
}

func TestLoadHooks(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "hooks.txt")
	require.NoError(t, os.WriteFile(path, []byte("/root/events http://example.invalid/a\n"), 0o644))

	err := LoadHooks(ctx, c, path, "root", nil)
	require.Error(t, err) // no hook manager configured in this coordinator
}
