// Package bootstrap seeds a freshly started coordinator from flat
// "key value" / "prefix link" files, grounded on the original hermes
// binary's parse_input_data / parse_input_hook / separate_words. It runs
// after replay and before the coordinator is exposed to anything else,
// so a fresh instance can come up pre-populated without a network
// interface.
package bootstrap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/3leaps/hermes/pkg/coordinator"
)

// LoadData reads path as lines of "key value" and calls Set for each.
// Lines that don't split into exactly a key and a value are skipped, as
// in the original loader. An empty path is a no-op.
func LoadData(ctx context.Context, c *coordinator.Coordinator, path string) error {
	if path == "" {
		return nil
	}
	return forEachLine(path, func(line string) error {
		key, value, ok := separateWords(line)
		if !ok {
			return nil
		}
		return c.Set(ctx, key, value)
	})
}

// LoadHooks reads path as lines of "prefix link" and calls HookSet for
// each, then logs the resulting hook set at startup.
func LoadHooks(ctx context.Context, c *coordinator.Coordinator, path, rootName string, log *zap.Logger) error {
	if path == "" {
		return nil
	}
	if err := forEachLine(path, func(line string) error {
		prefix, link, ok := separateWords(line)
		if !ok {
			return nil
		}
		return c.HookSet(ctx, prefix, link)
	}); err != nil {
		return err
	}

	hooks, err := c.HookList(ctx, "/"+rootName)
	if err != nil {
		return fmt.Errorf("bootstrap: list hooks after load: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("defined hooks at startup")
	for _, h := range hooks {
		log.Info("hook prefix", zap.String("prefix", h.Prefix), zap.Strings("targets", h.Targets))
	}
	return nil
}

func forEachLine(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bootstrap: open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return fmt.Errorf("bootstrap: %q: %w", path, err)
		}
	}
	return scanner.Err()
}

// separateWords splits line into a key and a value on the first run of
// whitespace, preserving any internal whitespace in the value. A line
// that is empty, starts with whitespace, or contains no whitespace is
// rejected.
func separateWords(line string) (key, value string, ok bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", "", false
	}

	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}

	rest := line[i:]
	j := 0
	for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
		j++
	}
	if j == len(rest) {
		return "", "", false
	}

	return line[:i], rest[j:], true
}
