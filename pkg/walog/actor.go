package walog

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	flushThreshold = 50
	idleFlush      = 5 * time.Second
)

type opKind int

const (
	opWrite opKind = iota
	opSuspend
	opResume
	opReadAppendFile
	opShutdown
)

type request struct {
	op    opKind
	items []Item
	reply chan reply
}

type reply struct {
	err   error
	items []Item
}

// Client is the channel-driven handle for a running logger actor.
type Client struct {
	reqCh      chan request
	writeAsync chan []Item
	done       chan struct{}
}

// Start launches the logger actor rooted at dir (pass "" to disable
// durable logging entirely) and returns a Client bound to it.
func Start(dir string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := newManager(dir, log)
	if err != nil {
		return nil, err
	}

	c := &Client{
		reqCh:      make(chan request, 32),
		writeAsync: make(chan []Item, 256),
		done:       make(chan struct{}),
	}
	go c.run(m, log)
	return c, nil
}

func (c *Client) run(m *manager, log *zap.Logger) {
	defer close(c.done)

	timer := time.NewTimer(idleFlush)
	defer timer.Stop()

	for {
		select {
		case req, ok := <-c.reqCh:
			if !ok {
				return
			}
			if !c.handle(m, log, req) {
				return
			}
		case items, ok := <-c.writeAsync:
			if !ok {
				return
			}
			if err := enqueueAll(m, items); err != nil {
				log.Error("walog: async enqueue failed", zap.Error(err))
				return
			}
			if len(m.pending) > flushThreshold {
				if err := m.flush(); err != nil {
					log.Error("walog: async flush failed", zap.Error(err))
					return
				}
			}
		case <-timer.C:
			if len(m.pending) > 0 {
				if err := m.flush(); err != nil {
					log.Error("walog: idle flush failed", zap.Error(err))
					return
				}
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(idleFlush)
	}
}

// enqueueAll routes items through manager.enqueue one at a time, so each
// lands in the pending or suspended buffer according to the manager's
// current state instead of always going straight to pending.
func enqueueAll(m *manager, items []Item) error {
	for _, item := range items {
		if err := m.enqueue(item); err != nil {
			return err
		}
	}
	return nil
}

// handle processes a synchronous request, returning false if the actor
// should stop running.
func (c *Client) handle(m *manager, log *zap.Logger, req request) bool {
	switch req.op {
	case opWrite:
		err := enqueueAll(m, req.items)
		if err == nil {
			err = m.flush()
		}
		req.reply <- reply{err: err}
		if err != nil {
			log.Error("walog: write failed", zap.Error(err))
			return false
		}
	case opSuspend:
		err := m.suspend()
		req.reply <- reply{err: err}
	case opResume:
		err := m.resume()
		req.reply <- reply{err: err}
	case opReadAppendFile:
		items, err := readAppendFile(m.dir)
		req.reply <- reply{items: items, err: err}
	case opShutdown:
		err := m.shutdown()
		req.reply <- reply{err: err}
		return false
	}
	return true
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

// WriteAsync enqueues items without waiting for them to be durably
// flushed. The actor flushes once its pending buffer exceeds 50 items,
// or after 5 seconds of inactivity.
func (c *Client) WriteAsync(items []Item) {
	select {
	case c.writeAsync <- items:
	case <-time.After(time.Second):
	}
}

// Write enqueues items and forces an immediate flush, waiting for it to
// complete (or fail) before returning.
func (c *Client) Write(ctx context.Context, items []Item) error {
	_, err := c.do(ctx, request{op: opWrite, items: items})
	return err
}

// Suspend pauses sidecar writes; see manager.suspend.
func (c *Client) Suspend(ctx context.Context) error {
	_, err := c.do(ctx, request{op: opSuspend})
	return err
}

// Resume resumes sidecar writes; see manager.resume.
func (c *Client) Resume(ctx context.Context) error {
	_, err := c.do(ctx, request{op: opResume})
	return err
}

// ReadAppendFile returns every record ever durably flushed, in order.
func (c *Client) ReadAppendFile(ctx context.Context) ([]Item, error) {
	r, err := c.do(ctx, request{op: opReadAppendFile})
	if err != nil {
		return nil, err
	}
	return r.items, nil
}

// Shutdown flushes any pending items and closes the sidecar, then stops
// the actor. Unlike the original logger, which had no documented
// flush-on-shutdown path, this guarantees a clean stop never silently
// drops buffered mutations.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.do(ctx, request{op: opShutdown})
	return err
}

// Done returns a channel closed once the actor's goroutine exits, for
// use by the watchdog.
func (c *Client) Done() <-chan struct{} { return c.done }
