package hookmanager

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opGet
	opList
	opSetEnabled
)

type request struct {
	op     opKind
	prefix string
	target string
	key    string
	value  string
	enabled bool
	reply  chan reply
}

type reply struct {
	err     error
	targets []string
	entries []Entry
}

// Client is the channel-driven handle used by the rest of the module to
// talk to a running hook manager actor. All exported methods are safe
// for concurrent use.
type Client struct {
	reqCh  chan request
	fireCh chan fireMsg
	done   chan struct{}
}

type fireMsg struct {
	key   string
	value string
}

// Options configures a hook manager actor.
type Options struct {
	// HTTPClient is the client used for outbound webhook POSTs. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client

	// RateLimit, if non-nil, throttles outbound webhook POSTs.
	RateLimit *rate.Limiter

	Logger *zap.Logger
}

// Start launches the hook manager actor and returns a Client bound to it.
func Start(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		reqCh:  make(chan request, 32),
		fireCh: make(chan fireMsg, 256),
		done:   make(chan struct{}),
	}
	go c.run(newManager(client, opts.RateLimit, log))
	return c
}

func (c *Client) run(m *manager) {
	defer close(c.done)
	for {
		select {
		case req, ok := <-c.reqCh:
			if !ok {
				return
			}
			c.handle(m, req)
		case msg, ok := <-c.fireCh:
			if !ok {
				return
			}
			if !m.enabled {
				continue
			}
			ctx := context.Background()
			for _, entry := range m.matchingTargets(msg.key) {
				for _, target := range entry.Targets {
					go m.post(ctx, target, msg.key, msg.value)
				}
			}
		}
	}
}

func (c *Client) handle(m *manager, req request) {
	switch req.op {
	case opAdd:
		err := m.add(req.prefix, req.target)
		req.reply <- reply{err: err}
	case opRemove:
		err := m.remove(req.prefix, req.target)
		req.reply <- reply{err: err}
	case opGet:
		targets, err := m.get(req.prefix)
		req.reply <- reply{err: err, targets: targets}
	case opList:
		entries := m.list(req.prefix)
		req.reply <- reply{entries: entries}
	case opSetEnabled:
		m.enabled = req.enabled
		req.reply <- reply{}
	}
}

func (c *Client) do(ctx context.Context, req request) (reply, error) {
	req.reply = make(chan reply, 1)
	select {
	case c.reqCh <- req:
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Add registers target under prefix.
func (c *Client) Add(ctx context.Context, prefix, target string) error {
	_, err := c.do(ctx, request{op: opAdd, prefix: prefix, target: target})
	return err
}

// Remove deregisters target from prefix.
func (c *Client) Remove(ctx context.Context, prefix, target string) error {
	_, err := c.do(ctx, request{op: opRemove, prefix: prefix, target: target})
	return err
}

// Get returns the targets registered exactly at prefix.
func (c *Client) Get(ctx context.Context, prefix string) ([]string, error) {
	r, err := c.do(ctx, request{op: opGet, prefix: prefix})
	if err != nil {
		return nil, err
	}
	return r.targets, nil
}

// List returns every registered prefix that has keyPrefix as a prefix.
func (c *Client) List(ctx context.Context, keyPrefix string) ([]Entry, error) {
	r, err := c.do(ctx, request{op: opList, prefix: keyPrefix})
	if err != nil {
		return nil, err
	}
	return r.entries, nil
}

// SetEnabled toggles whether Fire issues any webhook POSTs at all. The
// coordinator disables firing during startup replay so historical
// mutations don't re-trigger webhooks.
func (c *Client) SetEnabled(ctx context.Context, enabled bool) error {
	_, err := c.do(ctx, request{op: opSetEnabled, enabled: enabled})
	return err
}

// Fire asynchronously posts key/value to every hook whose prefix matches
// key. It does not wait for delivery. If the actor's fire buffer is full,
// it waits up to one second for room and then drops the fire silently.
func (c *Client) Fire(key, value string) {
	select {
	case c.fireCh <- fireMsg{key: key, value: value}:
	case <-time.After(time.Second):
	}
}

// Done returns a channel closed once the actor's goroutine exits, for use
// by the watchdog.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close stops the actor.
func (c *Client) Close() {
	close(c.reqCh)
	close(c.fireCh)
}
