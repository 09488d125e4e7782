package hookmanager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	c := Start(Options{})
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "/root/events", "http://example.invalid/a"))

	targets, err := c.Get(ctx, "/root/events")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.invalid/a"}, targets)

	err = c.Add(ctx, "/root/events", "http://example.invalid/a")
	require.ErrorIs(t, err, ErrAlreadyDefined)

	require.NoError(t, c.Remove(ctx, "/root/events", "http://example.invalid/a"))
	_, err = c.Get(ctx, "/root/events")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	c := Start(Options{})
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "/root/a", "http://example.invalid/1"))
	require.NoError(t, c.Add(ctx, "/root/a/b", "http://example.invalid/2"))

	entries, err := c.List(ctx, "/root/a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/root/a", entries[0].Prefix)
	assert.Equal(t, "/root/a/b", entries[1].Prefix)
}

func TestFireDeliversToMatchingPrefixesOnly(t *testing.T) {
	var mu sync.Mutex
	var received []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body webhookBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		received = append(received, body.Key)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := Start(Options{HTTPClient: srv.Client()})
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "/root/events", srv.URL))
	require.NoError(t, c.Add(ctx, "/root/other", srv.URL))

	c.Fire("/root/events/login", "alice")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"/root/events/login"}, received)
	mu.Unlock()
}

func TestFireSkippedWhenDisabled(t *testing.T) {
	var mu sync.Mutex
	var count int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
	}))
	defer srv.Close()

	c := Start(Options{HTTPClient: srv.Client()})
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "/root/events", srv.URL))
	require.NoError(t, c.SetEnabled(ctx, false))

	c.Fire("/root/events/login", "alice")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 0, count)
	mu.Unlock()
}
