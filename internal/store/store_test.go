// AngelaMos | 2026
// store_test.go

package store_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

func runBackendSuite(t *testing.T, backend store.Backend) {
	t.Helper()
	ctx := context.Background()

	a := store.Scope(backend, "visitor-a")
	b := store.Scope(backend, "visitor-b")

	if _, ok, err := a.Get(ctx, "isLoggedIn"); err != nil || ok {
		t.Fatalf("Get on empty namespace = ok %v err %v, want absent", ok, err)
	}

	if err := a.Set(ctx, "isLoggedIn", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := a.Set(ctx, "currentUser", "demo"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := a.Set(ctx, "currentUser", "admin"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := a.Get(ctx, "currentUser")
	if err != nil || !ok || v != "admin" {
		t.Fatalf("Get = %q, %v, %v; want admin", v, ok, err)
	}

	if _, ok, _ := b.Get(ctx, "currentUser"); ok {
		t.Fatalf("namespaces leak: visitor-b sees visitor-a keys")
	}

	if err := a.Set(ctx, "", ""); err != nil {
		t.Fatalf("empty key and value should be storable: %v", err)
	}
	if v, ok, _ := a.Get(ctx, ""); !ok || v != "" {
		t.Fatalf("empty value must be present, got ok=%v v=%q", ok, v)
	}

	keys, err := a.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"", "currentUser", "isLoggedIn"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}

	if err := a.Delete(ctx, "currentUser", "", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	keys, _ = a.Keys(ctx)
	if !reflect.DeepEqual(keys, []string{"isLoggedIn"}) {
		t.Fatalf("Keys after delete = %v", keys)
	}

	if err := backend.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := store.NewMemory()
	runBackendSuite(t, m)

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Set(context.Background(), "ns", "k", "v"); !errors.Is(err, store.ErrClosed) {
		t.Fatalf("Set after close = %v, want ErrClosed", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	db, err := core.NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	backend, err := store.NewSQL(ctx, db.DB)
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	runBackendSuite(t, backend)

	reopened, err := store.NewSQL(ctx, db.DB)
	if err != nil {
		t.Fatalf("schema creation must be idempotent: %v", err)
	}
	if v, ok, _ := reopened.Get(ctx, "visitor-a", "isLoggedIn"); !ok || v != "true" {
		t.Fatalf("value not persisted across handles: %q %v", v, ok)
	}
}

type failingKV struct{}

var errBroken = errors.New("quota exceeded")

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errBroken
}
func (failingKV) Set(context.Context, string, string) error { return errBroken }
func (failingKV) Delete(context.Context, ...string) error   { return errBroken }
func (failingKV) Keys(context.Context) ([]string, error)    { return nil, errBroken }

func TestGuardDegradesToDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	g := store.NewGuard(failingKV{}, logger)
	ctx := context.Background()

	if g.Bool(ctx, "isLoggedIn") {
		t.Errorf("Bool on failing store should be false")
	}
	if s := g.String(ctx, "currentUser"); s != "" {
		t.Errorf("String on failing store = %q, want empty", s)
	}
	if g.SetTrue(ctx, "isLoggedIn") {
		t.Errorf("SetTrue on failing store should report false")
	}
	if g.Remove(ctx, "isLoggedIn") {
		t.Errorf("Remove on failing store should report false")
	}
	if keys := g.Keys(ctx); keys != nil {
		t.Errorf("Keys on failing store = %v, want nil", keys)
	}

	out := buf.String()
	for _, msg := range []string{"storage read failed", "storage write failed", "storage delete failed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected warning %q in log output:\n%s", msg, out)
		}
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("failures must log at warn level:\n%s", out)
	}
}

func TestGuardJSON(t *testing.T) {
	ctx := context.Background()
	g := store.NewGuard(store.Scope(store.NewMemory(), "v"), nil)

	type prefs struct {
		Hidden []string `json:"hidden"`
	}

	if !g.SaveJSON(ctx, "prefs", prefs{Hidden: []string{"menu"}}) {
		t.Fatalf("SaveJSON failed")
	}

	var got prefs
	if !g.LoadJSON(ctx, "prefs", &got) {
		t.Fatalf("LoadJSON failed")
	}
	if !reflect.DeepEqual(got.Hidden, []string{"menu"}) {
		t.Fatalf("LoadJSON = %+v", got)
	}

	g.Set(ctx, "broken", "{not json")
	fallback := prefs{Hidden: []string{"default"}}
	if g.LoadJSON(ctx, "broken", &fallback) {
		t.Fatalf("LoadJSON should fail on invalid JSON")
	}
	if g.LoadJSON(ctx, "absent", &fallback) {
		t.Fatalf("LoadJSON should fail on absent key")
	}
	if !reflect.DeepEqual(fallback.Hidden, []string{"default"}) {
		t.Fatalf("absent/invalid must keep the default, got %+v", fallback)
	}
}
