package coordinator

import (
	"context"

	"github.com/3leaps/hermes/pkg/kerr"
	"github.com/3leaps/hermes/pkg/pathkey"
	"github.com/3leaps/hermes/pkg/walog"
)

type opKind int

const (
	opSet opKind = iota
	opGet
	opDeleteKey
	opDeleteTable
	opListKeys
	opTrigger
	opPush
	opPop
	opHookSet
	opHookGet
	opHookRemove
	opHookList
	opSuspendLog
	opResumeLog
)

type request struct {
	ctx    context.Context
	op     opKind
	key    string
	value  string
	target string
	depth  Depth
	reply  chan response
}

type response struct {
	err     error
	value   string
	entries []Entry
	targets []string
	hooks   []HookEntry
}

func (c *Coordinator) run() {
	defer close(c.done)
	for req := range c.reqCh {
		c.handle(req)
	}
}

func (c *Coordinator) do(ctx context.Context, req request) (response, error) {
	req.ctx = ctx
	req.reply = make(chan response, 1)
	select {
	case c.reqCh <- req:
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, r.err
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

func (c *Coordinator) handle(req request) {
	switch req.op {
	case opSet:
		c.handleSet(req)
	case opGet:
		c.handleGet(req)
	case opDeleteKey:
		c.handleDeleteKey(req)
	case opDeleteTable:
		c.handleDeleteTable(req)
	case opListKeys:
		c.handleListKeys(req)
	case opTrigger:
		c.handleTrigger(req)
	case opPush:
		c.handlePush(req)
	case opPop:
		c.handlePop(req)
	case opHookSet:
		c.handleHookSet(req)
	case opHookGet:
		c.handleHookGet(req)
	case opHookRemove:
		c.handleHookRemove(req)
	case opHookList:
		c.handleHookList(req)
	case opSuspendLog:
		c.handleSuspendLog(req)
	case opResumeLog:
		c.handleResumeLog(req)
	}
}

func (c *Coordinator) handleSet(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	err = c.tree.Insert(segs, req.value)
	req.reply <- response{err: err}
	if err == nil {
		c.emitLog(walog.KindSetKey, req.key, req.value)
		c.fireHook(req.key, req.value)
	}
}

func (c *Coordinator) handleGet(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	value, err := c.tree.Get(segs)
	req.reply <- response{value: value, err: err}
	if err == nil {
		c.emitLog(walog.KindGetKey, req.key, "")
	}
}

func (c *Coordinator) handleDeleteKey(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	err = c.tree.DeleteRecord(segs)
	req.reply <- response{err: err}
	if err == nil {
		c.emitLog(walog.KindRemKey, req.key, "")
	}
}

func (c *Coordinator) handleDeleteTable(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	err = c.tree.DeleteTable(segs)
	req.reply <- response{err: err}
	if err == nil {
		c.emitLog(walog.KindRemPath, req.key, "")
	}
}

func (c *Coordinator) handleListKeys(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	listed, err := c.tree.List(segs, req.depth)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	entries := make([]Entry, len(listed))
	for i, e := range listed {
		entries[i] = Entry{Key: "/" + joinSegments(e.Segments), Kind: e.Kind.String()}
	}
	req.reply <- response{entries: entries}
	c.emitLog(walog.KindListKeys, req.key, "")
}

func (c *Coordinator) handleTrigger(req request) {
	if c.hooks == nil {
		req.reply <- response{err: kerr.New(kerr.InactiveHookManager, "database is not subscribed to a hook manager")}
		return
	}
	req.reply <- response{}
	c.emitLog(walog.KindTrigger, req.key, req.value)
	c.fireHook(req.key, req.value)
}

func (c *Coordinator) handlePush(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	err = c.tree.Push(segs, req.value)
	req.reply <- response{err: err}
	if err == nil {
		c.emitLog(walog.KindPush, req.key, req.value)
		c.fireHook(req.key, req.value)
	}
}

func (c *Coordinator) handlePop(req request) {
	segs, err := pathkey.Validate(req.key, c.rootName)
	if err != nil {
		req.reply <- response{err: err}
		return
	}
	value, err := c.tree.Pop(segs)
	req.reply <- response{value: value, err: err}
	if err == nil {
		c.emitLog(walog.KindPop, req.key, "")
	}
}

func (c *Coordinator) handleHookSet(req request) {
	if c.hooks == nil {
		req.reply <- response{err: kerr.New(kerr.InactiveHookManager, "database is not subscribed to a hook manager")}
		return
	}
	ctx, cancel := c.hookCtx(req.ctx)
	defer cancel()
	err := c.hooks.Add(ctx, req.key, req.target)
	if err != nil {
		req.reply <- response{err: translateHookErr(err)}
		return
	}
	req.reply <- response{}
	c.emitLog(walog.KindSetHook, req.key, req.target)
}

func (c *Coordinator) handleHookGet(req request) {
	if c.hooks == nil {
		req.reply <- response{err: kerr.New(kerr.InactiveHookManager, "database is not subscribed to a hook manager")}
		return
	}
	ctx, cancel := c.hookCtx(req.ctx)
	defer cancel()
	targets, err := c.hooks.Get(ctx, req.key)
	if err != nil {
		req.reply <- response{err: translateHookErr(err)}
		return
	}
	req.reply <- response{targets: targets}
	c.emitLog(walog.KindGetHook, req.key, "")
}

func (c *Coordinator) handleHookRemove(req request) {
	if c.hooks == nil {
		req.reply <- response{err: kerr.New(kerr.InactiveHookManager, "database is not subscribed to a hook manager")}
		return
	}
	ctx, cancel := c.hookCtx(req.ctx)
	defer cancel()
	err := c.hooks.Remove(ctx, req.key, req.target)
	if err != nil {
		req.reply <- response{err: translateHookErr(err)}
		return
	}
	req.reply <- response{}
	c.emitLog(walog.KindRemHook, req.key, req.target)
}

func (c *Coordinator) handleHookList(req request) {
	if c.hooks == nil {
		req.reply <- response{err: kerr.New(kerr.InactiveHookManager, "database is not subscribed to a hook manager")}
		return
	}
	ctx, cancel := c.hookCtx(req.ctx)
	defer cancel()
	entries, err := c.hooks.List(ctx, req.key)
	if err != nil {
		req.reply <- response{err: translateHookErr(err)}
		return
	}
	hooks := make([]HookEntry, len(entries))
	for i, e := range entries {
		hooks[i] = HookEntry{Prefix: e.Prefix, Targets: e.Targets}
	}
	req.reply <- response{hooks: hooks}
	c.emitLog(walog.KindListHooks, req.key, "")
}

func (c *Coordinator) handleSuspendLog(req request) {
	if c.logs == nil {
		req.reply <- response{err: kerr.New(kerr.LogError, "logger is not configured")}
		return
	}
	if err := c.logs.Suspend(req.ctx); err != nil {
		req.reply <- response{err: kerr.New(kerr.LogError, err.Error())}
		return
	}
	req.reply <- response{}
}

func (c *Coordinator) handleResumeLog(req request) {
	if c.logs == nil {
		req.reply <- response{err: kerr.New(kerr.LogError, "logger is not configured")}
		return
	}
	if err := c.logs.Resume(req.ctx); err != nil {
		req.reply <- response{err: kerr.New(kerr.LogError, err.Error())}
		return
	}
	req.reply <- response{}
}

func joinSegments(segments []string) string {
	out := segments[0]
	for _, s := range segments[1:] {
		out += "/" + s
	}
	return out
}
