// Package coordinator implements the single-writer actor that owns the
// tree store exclusively, translating the external request contract
// (Set/Get/DeleteKey/DeleteTable/ListKeys/Trigger/Push/Pop plus the hook
// and logger control operations) into tree-store calls, durable log
// items and hook fires, in that order. It is grounded on the original
// datastore's start_datastore, with its startup replay protocol in
// replay.go and its main receive loop in actor.go.
package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/3leaps/hermes/pkg/hookmanager"
	"github.com/3leaps/hermes/pkg/kerr"
	"github.com/3leaps/hermes/pkg/pathkey"
	"github.com/3leaps/hermes/pkg/tree"
	"github.com/3leaps/hermes/pkg/walog"
)

// Depth controls how far ListKeys descends; re-exported from pkg/tree so
// callers don't need to import it directly.
type Depth = tree.Depth

const (
	DepthOneLevel = tree.DepthOneLevel
	DepthAll      = tree.DepthAll
)

// Entry is one listed record or queue.
type Entry struct {
	Key  string
	Kind string
}

// HookEntry is one registered prefix and its targets.
type HookEntry struct {
	Prefix  string
	Targets []string
}

// hookRequestTimeout bounds how long the coordinator waits on a reply
// from the hook manager actor for control operations (Add/Remove/Get/
// List), so a wedged hook manager can't stall the coordinator forever.
const hookRequestTimeout = 2 * time.Second

// Coordinator is the single-writer actor owning the tree store.
type Coordinator struct {
	reqCh chan request
	done  chan struct{}

	rootName string
	tree     *tree.Tree
	hooks    *hookmanager.Client
	logs     *walog.Client
	log      *zap.Logger
}

// New constructs a Coordinator. hooks and logs may be nil, in which case
// hook and logging operations fail with InactiveHookManager / LogError
// respectively (logging of successful operations is simply skipped).
func New(rootName string, hooks *hookmanager.Client, logs *walog.Client, log *zap.Logger) (*Coordinator, error) {
	if err := pathkey.ValidateRoot(rootName); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		reqCh:    make(chan request, 128),
		done:     make(chan struct{}),
		rootName: rootName,
		tree:     tree.New(),
		hooks:    hooks,
		logs:     logs,
		log:      log,
	}, nil
}

// Start replays the durable log (if a logger is configured) and then
// launches the main receive loop goroutine.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.logs != nil {
		if err := c.replay(ctx); err != nil {
			return err
		}
	}
	go c.run()
	return nil
}

// Done returns a channel closed once the coordinator's goroutine exits,
// for use by the watchdog.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// Close stops the coordinator's main loop.
func (c *Coordinator) Close() { close(c.reqCh) }

func (c *Coordinator) emitLog(kind walog.Kind, key, value string) {
	if c.logs == nil {
		return
	}
	c.logs.WriteAsync([]walog.Item{{Kind: kind, At: time.Now(), Key: key, Value: value}})
}

func (c *Coordinator) fireHook(key, value string) {
	if c.hooks == nil {
		return
	}
	c.hooks.Fire(key, value)
}

func (c *Coordinator) hookCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, hookRequestTimeout)
}

func translateHookErr(err error) error {
	switch err {
	case hookmanager.ErrAlreadyDefined:
		return kerr.New(kerr.InvalidKey, "Already defined")
	case hookmanager.ErrNotFound:
		return kerr.New(kerr.InvalidKey, "Not found")
	default:
		if err == context.DeadlineExceeded {
			return kerr.New(kerr.InternalError, "hook manager timeout")
		}
		return kerr.New(kerr.InternalError, err.Error())
	}
}
