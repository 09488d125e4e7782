// Package pathkey validates the absolute slash-separated keys Hermes
// addresses its tree with, independent of the tree store itself.
package pathkey

import (
	"strings"

	"github.com/3leaps/hermes/pkg/kerr"
)

// Validate splits key into its segments and checks it against the three
// rules from the original datastore's validate_key:
//  1. the key must begin with '/'
//  2. splitting on '/' and discarding empty segments must leave at least
//     one segment
//  3. the first segment must equal the configured root name
//
// The returned segments include the root segment itself, since the tree
// store treats the root name as an ordinary (always-present) table
// segment rather than stripping it before descending.
func Validate(key, rootName string) ([]string, error) {
	if len(key) == 0 || key[0] != '/' {
		return nil, kerr.New(kerr.InvalidKey, "key must begin with '/' sign")
	}

	parts := strings.Split(key, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}

	if len(segments) == 0 {
		return nil, kerr.New(kerr.InvalidKey, "key must contain at least 1 segment, e.g.: /root/status")
	}

	if segments[0] != rootName {
		return nil, kerr.New(kerr.InvalidKey, "key does not begin with the root table")
	}

	return segments, nil
}

// ValidateRoot checks a configured root table name: it must be non-empty
// and must not itself contain a '/'.
func ValidateRoot(rootName string) error {
	if rootName == "" {
		return kerr.New(kerr.InvalidRoot, "root name must not be empty")
	}
	if strings.Contains(rootName, "/") {
		return kerr.New(kerr.InvalidRoot, "root name must not contain '/'")
	}
	return nil
}
