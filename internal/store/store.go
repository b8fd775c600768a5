// AngelaMos | 2026
// store.go

// Package store holds the per-visitor key/value namespace that stands in
// for a browser's local storage. Values are plain strings; absence is a
// distinct state from the empty string.
//
// No backend offers transactions across keys. Concurrent writers to one
// namespace (two tabs, two requests) are last-write-wins.
package store

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("store closed")

type Backend interface {
	Get(ctx context.Context, ns, key string) (string, bool, error)
	Set(ctx context.Context, ns, key, value string) error
	Delete(ctx context.Context, ns string, keys ...string) error
	Keys(ctx context.Context, ns string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// KV is a Backend bound to a single visitor namespace.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}

type scoped struct {
	backend Backend
	ns      string
}

func Scope(backend Backend, ns string) KV {
	return &scoped{backend: backend, ns: ns}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.ns, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.ns, key, value)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.backend.Delete(ctx, s.ns, keys...)
}

func (s *scoped) Keys(ctx context.Context) ([]string, error) {
	return s.backend.Keys(ctx, s.ns)
}
