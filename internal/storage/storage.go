package storage

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic key derivation
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which fetched items were already reported.

// Store tracks item keys that have been seen before.
type Store interface {
	Close() error
	// Remember marks every key as seen and reports, per key, whether it was
	// new before the call.
	Remember(keys []string) ([]bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ItemTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultItemTTL         = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// ItemKey derives the store key for one projected item of a fetch.
func ItemKey(method, userID, item string) string {
	sum := sha1.Sum([]byte(method + "|" + userID + "|" + item))
	return hex.EncodeToString(sum[:])
}

func normalizeOptions(opts Options) Options {
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = defaultItemTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }

// Remember reports nothing as new: without persistence there is no history.
func (noopStore) Remember(keys []string) ([]bool, error) { return make([]bool, len(keys)), nil }
