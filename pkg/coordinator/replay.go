package coordinator

import (
	"context"
	"fmt"

	"github.com/3leaps/hermes/pkg/hookmanager"
	"github.com/3leaps/hermes/pkg/pathkey"
	"github.com/3leaps/hermes/pkg/walog"
)

// replay rebuilds the tree from the durable append file before the main
// loop starts accepting requests. It follows the original datastore's
// startup protocol exactly:
//  1. disable hook firing, so replayed mutations don't re-trigger webhooks
//  2. read every record ever durably flushed
//  3. reapply each mutating record directly against the tree/hook
//     manager, without re-emitting a log item for it
//  4. re-enable hook firing
//
// A SetHook record whose target is already registered is tolerated (the
// hook must have been registered twice across the log, which is benign);
// any other failure aborts startup.
func (c *Coordinator) replay(ctx context.Context) error {
	if c.hooks != nil {
		if err := c.hooks.SetEnabled(ctx, false); err != nil {
			return fmt.Errorf("coordinator: disable hooks for replay: %w", err)
		}
	}

	items, err := c.logs.ReadAppendFile(ctx)
	if err != nil {
		return fmt.Errorf("coordinator: read append file: %w", err)
	}

	for _, item := range items {
		if !item.Mutating() {
			continue
		}
		if err := c.applyReplayItem(ctx, item); err != nil {
			return fmt.Errorf("coordinator: replay %s %q: %w", item.Kind, item.Key, err)
		}
	}

	if c.hooks != nil {
		if err := c.hooks.SetEnabled(ctx, true); err != nil {
			return fmt.Errorf("coordinator: re-enable hooks after replay: %w", err)
		}
	}
	return nil
}

func (c *Coordinator) applyReplayItem(ctx context.Context, item walog.Item) error {
	switch item.Kind {
	case walog.KindSetKey:
		segs, err := pathkey.Validate(item.Key, c.rootName)
		if err != nil {
			return err
		}
		return c.tree.Insert(segs, item.Value)
	case walog.KindRemKey:
		segs, err := pathkey.Validate(item.Key, c.rootName)
		if err != nil {
			return err
		}
		return c.tree.DeleteRecord(segs)
	case walog.KindRemPath:
		segs, err := pathkey.Validate(item.Key, c.rootName)
		if err != nil {
			return err
		}
		return c.tree.DeleteTable(segs)
	case walog.KindPush:
		segs, err := pathkey.Validate(item.Key, c.rootName)
		if err != nil {
			return err
		}
		return c.tree.Push(segs, item.Value)
	case walog.KindPop:
		segs, err := pathkey.Validate(item.Key, c.rootName)
		if err != nil {
			return err
		}
		_, err = c.tree.Pop(segs)
		return err
	case walog.KindSetHook:
		if c.hooks == nil {
			return nil
		}
		err := c.hooks.Add(ctx, item.Key, item.Value)
		if err != nil && err != hookmanager.ErrAlreadyDefined {
			return err
		}
		return nil
	case walog.KindRemHook:
		if c.hooks == nil {
			return nil
		}
		return c.hooks.Remove(ctx, item.Key, item.Value)
	default:
		return nil
	}
}
