// Package cache stores rendered analyses keyed by a fingerprint of the
// configuration that produced them. Analyses are pure functions of their
// configuration, so an entry never needs invalidating before it expires.
package cache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache is implemented by the in-memory and Redis backends.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key fingerprints payload under a namespace, e.g. "analysis:9f2c...".
func Key(namespace string, payload []byte) string {
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) error { return nil }
