// Package walog implements the durable write-ahead logger: a binary
// append-only file of mutating operations plus a human-readable sidecar,
// replayed at startup to rebuild the tree after a restart. It is
// grounded on the original datastore's logger::LoggerManager, translated
// from its tokio actor into a Go goroutine-and-channel actor (actor.go).
package walog

import (
	"fmt"
	"time"
)

// Kind identifies the operation a log item records. The full set mirrors
// LogItem's variants in the original logger, including the read-only
// ones that are only ever written to the human sidecar.
type Kind uint8

const (
	KindSetKey Kind = iota
	KindGetKey
	KindRemKey
	KindRemPath
	KindListKeys
	KindTrigger
	KindSetHook
	KindGetHook
	KindRemHook
	KindListHooks
	KindHookExecute
	KindPush
	KindPop
)

func (k Kind) String() string {
	switch k {
	case KindSetKey:
		return "SetKey"
	case KindGetKey:
		return "GetKey"
	case KindRemKey:
		return "RemKey"
	case KindRemPath:
		return "RemPath"
	case KindListKeys:
		return "ListKeys"
	case KindTrigger:
		return "Trigger"
	case KindSetHook:
		return "SetHook"
	case KindGetHook:
		return "GetHook"
	case KindRemHook:
		return "RemHook"
	case KindListHooks:
		return "ListHooks"
	case KindHookExecute:
		return "HookExecute"
	case KindPush:
		return "Push"
	case KindPop:
		return "Pop"
	default:
		return "Unknown"
	}
}

// Item is one log record: a timestamped operation with up to two string
// arguments (key/prefix and value/link, depending on Kind).
type Item struct {
	Kind Kind
	At   time.Time
	Key  string
	Value string
}

// Mutating reports whether this item's Kind is one of the seven variants
// that get persisted to the durable append file. Every Kind may be
// written to the human-readable sidecar; only these seven survive a
// restart and get replayed.
func (i Item) Mutating() bool {
	switch i.Kind {
	case KindSetKey, KindRemKey, KindRemPath, KindSetHook, KindRemHook, KindPush, KindPop:
		return true
	default:
		return false
	}
}

// String renders the item the way the sidecar stores it: a duration
// since the epoch in nanoseconds, the kind, and its arguments.
func (i Item) String() string {
	if i.Value == "" {
		return fmt.Sprintf("%d %s [ '%s' ]", i.At.UnixNano(), i.Kind, i.Key)
	}
	return fmt.Sprintf("%d %s [ '%s', '%s' ]", i.At.UnixNano(), i.Kind, i.Key, i.Value)
}
