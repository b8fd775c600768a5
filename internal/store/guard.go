// AngelaMos | 2026
// guard.go

package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

const trueValue = "true"

// Guard turns storage failures into a logged warning plus a safe default.
// Nothing built on it ever fails a request because the store hiccuped.
type Guard struct {
	kv     KV
	logger *slog.Logger
}

func NewGuard(kv KV, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{kv: kv, logger: logger}
}

// String returns the stored value, or "" when absent or unreadable.
func (g *Guard) String(ctx context.Context, key string) string {
	v, _ := g.Lookup(ctx, key)
	return v
}

func (g *Guard) Lookup(ctx context.Context, key string) (string, bool) {
	v, ok, err := g.kv.Get(ctx, key)
	if err != nil {
		g.fail(ctx, "read", err, "key", key)
		return "", false
	}
	return v, ok
}

// Bool reports whether key holds exactly "true".
func (g *Guard) Bool(ctx context.Context, key string) bool {
	return g.String(ctx, key) == trueValue
}

func (g *Guard) Set(ctx context.Context, key, value string) bool {
	if err := g.kv.Set(ctx, key, value); err != nil {
		g.fail(ctx, "write", err, "key", key)
		return false
	}
	return true
}

func (g *Guard) SetTrue(ctx context.Context, key string) bool {
	return g.Set(ctx, key, trueValue)
}

func (g *Guard) Remove(ctx context.Context, keys ...string) bool {
	if err := g.kv.Delete(ctx, keys...); err != nil {
		g.fail(ctx, "delete", err, "keys", keys)
		return false
	}
	return true
}

func (g *Guard) Keys(ctx context.Context) []string {
	keys, err := g.kv.Keys(ctx)
	if err != nil {
		g.fail(ctx, "list", err)
		return nil
	}
	return keys
}

// SaveJSON stores v encoded as JSON and reports success.
func (g *Guard) SaveJSON(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		g.fail(ctx, "encode", err, "key", key)
		return false
	}
	return g.Set(ctx, key, string(data))
}

// LoadJSON decodes the value at key into dst and reports success. Callers
// pre-fill dst with their default and ignore it on false.
func (g *Guard) LoadJSON(ctx context.Context, key string, dst any) bool {
	raw, ok := g.Lookup(ctx, key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		g.fail(ctx, "decode", err, "key", key)
		return false
	}
	return true
}

func (g *Guard) fail(ctx context.Context, op string, err error, attrs ...any) {
	core.RecordStorageError(ctx, op, err)
	g.logger.WarnContext(ctx, "storage "+op+" failed",
		append(attrs, "error", err)...,
	)
}
