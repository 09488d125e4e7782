// Package hookmanager owns the webhook registry: an ordered mapping from
// key prefix to a list of target URLs, fired whenever a matching record
// key is set, pushed or triggered. It is grounded on the original
// datastore's hook::HookManager (a BTreeMap<Prefix, Hooks> plus a
// reqwest::Client), translated into a Go actor (see actor.go) that owns
// the map exclusively and posts outbound webhooks from spawned
// goroutines so a slow remote endpoint never blocks the fire-and-forget
// caller.
package hookmanager

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrAlreadyDefined is returned by Add when the (prefix, target) pair is
// already registered.
var ErrAlreadyDefined = errors.New("already defined")

// ErrNotFound is returned by Remove and Get when the prefix (or, for
// Remove, the specific target under it) isn't registered.
var ErrNotFound = errors.New("not found")

// Entry is one prefix and its registered targets, as returned by List.
type Entry struct {
	Prefix  string
	Targets []string
}

// manager holds the pure, non-concurrent registry and posting logic. It
// is deliberately unexported: all external access goes through the
// channel-driven Client in actor.go, matching the tree store's
// single-owner discipline.
type manager struct {
	hooks   map[string][]string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	enabled bool
}

func newManager(client *http.Client, limiter *rate.Limiter, log *zap.Logger) *manager {
	return &manager{
		hooks:   make(map[string][]string),
		client:  client,
		limiter: limiter,
		log:     log,
		enabled: true,
	}
}

func (m *manager) add(prefix, target string) error {
	for _, existing := range m.hooks[prefix] {
		if existing == target {
			return ErrAlreadyDefined
		}
	}
	m.hooks[prefix] = append(m.hooks[prefix], target)
	return nil
}

func (m *manager) remove(prefix, target string) error {
	targets, ok := m.hooks[prefix]
	if !ok {
		return ErrNotFound
	}
	idx := -1
	for i, existing := range targets {
		if existing == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	targets = append(targets[:idx], targets[idx+1:]...)
	if len(targets) == 0 {
		delete(m.hooks, prefix)
	} else {
		m.hooks[prefix] = targets
	}
	return nil
}

func (m *manager) get(prefix string) ([]string, error) {
	targets, ok := m.hooks[prefix]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]string, len(targets))
	copy(out, targets)
	return out, nil
}

// list returns every registered prefix whose value has keyPrefix as a
// prefix, sorted lexicographically by prefix. Note the direction: this
// is the opposite of fire matching below, and mirrors the original
// HookManager::list, which surfaces hooks nested under the given key
// rather than hooks that would fire for it.
func (m *manager) list(keyPrefix string) []Entry {
	var out []Entry
	for prefix, targets := range m.hooks {
		if strings.HasPrefix(prefix, keyPrefix) {
			cp := make([]string, len(targets))
			copy(cp, targets)
			out = append(out, Entry{Prefix: prefix, Targets: cp})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// matchingTargets returns, for every stored prefix that key has as a
// prefix, its targets — in prefix-lexicographic order, then target
// insertion order. This is the set fire posts to.
func (m *manager) matchingTargets(key string) []Entry {
	var out []Entry
	for prefix, targets := range m.hooks {
		if strings.HasPrefix(key, prefix) {
			cp := make([]string, len(targets))
			copy(cp, targets)
			out = append(out, Entry{Prefix: prefix, Targets: cp})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

type webhookBody struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// post issues a single webhook POST. It never returns an error to the
// caller: failures are logged, matching the fire-and-forget contract
// (a hook fire has no reply channel, so there is nobody to report to).
func (m *manager) post(ctx context.Context, target, key, value string) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}
	}

	body, err := json.Marshal(webhookBody{Key: key, Value: value})
	if err != nil {
		m.log.Error("hookmanager: marshal webhook body", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(string(body)))
	if err != nil {
		m.log.Error("hookmanager: build webhook request", zap.String("target", target), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		m.log.Warn("hookmanager: webhook delivery failed", zap.String("target", target), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		m.log.Warn("hookmanager: webhook rejected",
			zap.String("target", target), zap.Int("status", resp.StatusCode))
	}
}
