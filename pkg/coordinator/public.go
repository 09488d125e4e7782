package coordinator

import "context"

// Set stores value at key, auto-creating intermediate tables.
func (c *Coordinator) Set(ctx context.Context, key, value string) error {
	_, err := c.do(ctx, request{op: opSet, key: key, value: value})
	return err
}

// Get returns the record stored at key.
func (c *Coordinator) Get(ctx context.Context, key string) (string, error) {
	r, err := c.do(ctx, request{op: opGet, key: key})
	return r.value, err
}

// DeleteKey removes the record stored at key.
func (c *Coordinator) DeleteKey(ctx context.Context, key string) error {
	_, err := c.do(ctx, request{op: opDeleteKey, key: key})
	return err
}

// DeleteTable removes the subtable rooted at key, and everything beneath it.
func (c *Coordinator) DeleteTable(ctx context.Context, key string) error {
	_, err := c.do(ctx, request{op: opDeleteTable, key: key})
	return err
}

// ListKeys lists the records and queues under key at the given depth.
func (c *Coordinator) ListKeys(ctx context.Context, key string, depth Depth) ([]Entry, error) {
	r, err := c.do(ctx, request{op: opListKeys, key: key, depth: depth})
	return r.entries, err
}

// Trigger fires any hooks matching key without mutating the tree.
func (c *Coordinator) Trigger(ctx context.Context, key, value string) error {
	_, err := c.do(ctx, request{op: opTrigger, key: key, value: value})
	return err
}

// Push appends value to the queue at key.
func (c *Coordinator) Push(ctx context.Context, key, value string) error {
	_, err := c.do(ctx, request{op: opPush, key: key, value: value})
	return err
}

// Pop removes and returns the front value of the queue at key.
func (c *Coordinator) Pop(ctx context.Context, key string) (string, error) {
	r, err := c.do(ctx, request{op: opPop, key: key})
	return r.value, err
}

// HookSet registers target under prefix.
func (c *Coordinator) HookSet(ctx context.Context, prefix, target string) error {
	_, err := c.do(ctx, request{op: opHookSet, key: prefix, target: target})
	return err
}

// HookGet returns the targets registered exactly at prefix.
func (c *Coordinator) HookGet(ctx context.Context, prefix string) ([]string, error) {
	r, err := c.do(ctx, request{op: opHookGet, key: prefix})
	return r.targets, err
}

// HookRemove deregisters target from prefix.
func (c *Coordinator) HookRemove(ctx context.Context, prefix, target string) error {
	_, err := c.do(ctx, request{op: opHookRemove, key: prefix, target: target})
	return err
}

// HookList returns every registered prefix that has keyPrefix as a prefix.
func (c *Coordinator) HookList(ctx context.Context, keyPrefix string) ([]HookEntry, error) {
	r, err := c.do(ctx, request{op: opHookList, key: keyPrefix})
	return r.hooks, err
}

// SuspendLog pauses the durable logger's sidecar output.
func (c *Coordinator) SuspendLog(ctx context.Context) error {
	_, err := c.do(ctx, request{op: opSuspendLog})
	return err
}

// ResumeLog resumes the durable logger's sidecar output.
func (c *Coordinator) ResumeLog(ctx context.Context) error {
	_, err := c.do(ctx, request{op: opResumeLog})
	return err
}
