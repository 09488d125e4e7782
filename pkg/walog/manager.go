package walog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// State is the logger's lifecycle state.
type State int

const (
	// StateClosed rejects writes outright.
	StateClosed State = iota
	// StateOpen writes go straight to the pending flush buffer.
	StateOpen
	// StateSuspended buffers writes in memory; on resume they are
	// flushed to the sidecar only, not the append file.
	StateSuspended
)

const appendFileName = "hermes.af"
const sidecarFileName = "human.log"

// manager is the non-concurrent logger core. Its state is exclusively
// owned by the actor goroutine in actor.go.
type manager struct {
	dir     string // empty disables logging entirely
	state   State
	sidecar *os.File
	writer  *bufio.Writer

	pending   []Item // awaiting flush to the append file + sidecar
	suspended []Item // accumulated while suspended, flushed to sidecar only

	log *zap.Logger
}

func newManager(dir string, log *zap.Logger) (*manager, error) {
	m := &manager{dir: dir, state: StateClosed, log: log}
	if dir == "" {
		return m, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("walog: create log directory %q: %w", dir, err)
	}
	if err := m.openSidecar(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *manager) openSidecar() error {
	f, err := os.OpenFile(filepath.Join(m.dir, sidecarFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("walog: open sidecar: %w", err)
	}
	m.sidecar = f
	m.writer = bufio.NewWriter(f)
	m.state = StateOpen
	return nil
}

func (m *manager) closeSidecar() error {
	if m.writer == nil {
		return nil
	}
	err := m.writer.Flush()
	cerr := m.sidecar.Close()
	m.writer = nil
	m.sidecar = nil
	if err != nil {
		return err
	}
	return cerr
}

// enqueue adds item to the correct pending buffer based on current
// state, failing fast if the logger is closed.
func (m *manager) enqueue(item Item) error {
	if m.dir == "" {
		return nil
	}
	switch m.state {
	case StateClosed:
		return fmt.Errorf("stream is closed, start required for logger")
	case StateSuspended:
		m.suspended = append(m.suspended, item)
		return nil
	default:
		m.pending = append(m.pending, item)
		return nil
	}
}

// flush writes every pending item's binary record (mutating items only)
// to the append file, and every pending item's human rendering to the
// sidecar, then clears the pending buffer.
func (m *manager) flush() error {
	if m.dir == "" || len(m.pending) == 0 {
		return nil
	}

	af, err := os.OpenFile(filepath.Join(m.dir, appendFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("walog: open append file: %w", err)
	}
	defer af.Close()

	afw := bufio.NewWriter(af)
	for _, item := range m.pending {
		if item.Mutating() {
			if _, err := afw.Write(Encode(item)); err != nil {
				return fmt.Errorf("walog: write append file record: %w", err)
			}
		}
		if err := m.writeSidecarLine(item); err != nil {
			return err
		}
	}
	if err := afw.Flush(); err != nil {
		return fmt.Errorf("walog: flush append file: %w", err)
	}

	m.pending = m.pending[:0]
	return nil
}

func (m *manager) writeSidecarLine(item Item) error {
	if m.writer == nil {
		return fmt.Errorf("walog: sidecar is not open")
	}
	if _, err := m.writer.WriteString(item.String() + "\n"); err != nil {
		return fmt.Errorf("walog: write sidecar line: %w", err)
	}
	return m.writer.Flush()
}

// suspend stops sidecar writes; subsequent enqueues accumulate in the
// overflow buffer instead.
func (m *manager) suspend() error {
	if m.dir == "" {
		return nil
	}
	if err := m.closeSidecar(); err != nil {
		return fmt.Errorf("walog: suspend: %w", err)
	}
	m.state = StateSuspended
	return nil
}

// resume reopens the sidecar and flushes every item accumulated while
// suspended to it, in recorded order, then returns to Open. Those items
// are not retroactively written to the append file, matching the
// original logger's resume() behavior.
func (m *manager) resume() error {
	if m.dir == "" {
		return nil
	}
	if m.state != StateSuspended {
		return fmt.Errorf("only possible to resume from suspended state")
	}
	if err := m.openSidecar(); err != nil {
		return fmt.Errorf("walog: resume: %w", err)
	}
	for _, item := range m.suspended {
		if _, err := m.writer.WriteString(item.String() + "\n"); err != nil {
			return fmt.Errorf("walog: write buffered line after resume: %w", err)
		}
	}
	if err := m.writer.Flush(); err != nil {
		return fmt.Errorf("walog: flush after resume: %w", err)
	}
	m.suspended = m.suspended[:0]
	return nil
}

// shutdown drains any pending items and closes the sidecar. This path
// has no equivalent in the original logger, which never flushed on
// process exit; it exists here so a clean shutdown never silently drops
// buffered mutations.
func (m *manager) shutdown() error {
	if m.dir == "" {
		return nil
	}
	if err := m.flush(); err != nil {
		return err
	}
	return m.closeSidecar()
}

// readAppendFile reads and decodes every record in the append file, in
// order. A missing file (nothing ever flushed, or logging disabled) is
// reported as an empty, error-free result.
func readAppendFile(dir string) ([]Item, error) {
	if dir == "" {
		return nil, nil
	}
	path := filepath.Join(dir, appendFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walog: read append file: %w", err)
	}

	var items []Item
	idx := 0
	for idx < len(content) {
		item, n, err := Decode(content[idx:])
		if err != nil {
			return nil, fmt.Errorf("walog: corrupt append file at offset %d: %w", idx, err)
		}
		items = append(items, item)
		idx += n
	}
	return items, nil
}
