// AngelaMos | 2026
// ui_test.go

package ui_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/progress"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
	"github.com/carterperez-dev/templates/course-gate/internal/ui"
)

const ns = "visitor-a"

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestNotifierAutoDismiss(t *testing.T) {
	n := ui.NewNotifier(nil)
	defer n.Close()

	id := n.Show(ns, "saved", ui.KindSuccess, 20*time.Millisecond)
	sticky := n.Show(ns, "loading", ui.KindInfo, 0)

	toasts := n.Pending(ns)
	if len(toasts) != 2 || toasts[0].ID != id || toasts[1].ID != sticky {
		t.Fatalf("pending = %+v", toasts)
	}
	if toasts[0].Color != "#27ae60" || toasts[0].ExpiresAt == nil {
		t.Fatalf("success toast = %+v", toasts[0])
	}
	if toasts[1].ExpiresAt != nil {
		t.Fatalf("sticky toast has expiry")
	}

	waitFor(t, func() bool { return len(n.Pending(ns)) == 1 })
	if got := n.Pending(ns); got[0].ID != sticky {
		t.Fatalf("remaining = %+v", got)
	}
}

func TestNotifierDismissCancelsTimer(t *testing.T) {
	n := ui.NewNotifier(nil)
	defer n.Close()

	id := n.Show(ns, "bye", ui.KindWarning, time.Hour)
	if !n.Dismiss(ns, id) {
		t.Fatalf("Dismiss = false")
	}
	if n.Dismiss(ns, id) {
		t.Fatalf("second Dismiss = true")
	}
	if len(n.Pending(ns)) != 0 {
		t.Fatalf("toast still pending")
	}
	if n.Dismiss("other", id) {
		t.Fatalf("dismissed across namespaces")
	}
}

func TestNotifierUnknownKindAndClose(t *testing.T) {
	n := ui.NewNotifier(nil)

	n.Show(ns, "?", ui.Kind("purple"), 0)
	if got := n.Pending(ns)[0]; got.Kind != ui.KindInfo || got.Color != "#3498db" {
		t.Fatalf("unknown kind toast = %+v", got)
	}

	n.Close()
	if len(n.Pending(ns)) != 0 {
		t.Fatalf("Close kept toasts")
	}
	if id := n.Show(ns, "late", ui.KindError, 0); id != "" {
		t.Fatalf("Show after Close returned %q", id)
	}
}

func TestCompletionToastsLocalized(t *testing.T) {
	n := ui.NewNotifier(nil)
	defer n.Close()

	toasts := ui.NewCompletionToasts(n, time.Hour)
	ctx := i18n.WithLocale(context.Background(), "es-ES")
	svc := progress.NewService(store.NewMemory(), toasts, nil)

	if err := svc.MarkCompleted(ctx, ns, 2); err != nil {
		t.Fatal(err)
	}

	got := n.Pending(ns)
	if len(got) != 1 {
		t.Fatalf("pending = %+v", got)
	}
	if got[0].Message != "¡Módulo 2 Completado!" || got[0].Kind != ui.KindSuccess {
		t.Fatalf("toast = %+v", got[0])
	}
	if len(got[0].Detail) != 2 || got[0].Detail[1] != "Módulo 3 desbloqueado" {
		t.Fatalf("detail = %v", got[0].Detail)
	}
}

func TestDebounce(t *testing.T) {
	var calls atomic.Int32
	call, cancel := ui.Debounce(func() { calls.Add(1) }, 30*time.Millisecond)

	for i := 0; i < 5; i++ {
		call()
	}
	waitFor(t, func() bool { return calls.Load() == 1 })

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 1 {
		t.Fatalf("burst produced %d calls", calls.Load())
	}

	call()
	cancel()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 1 {
		t.Fatalf("cancelled call still ran")
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)

	if got := ui.FormatDate(ts); got != "19 de octubre de 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := ui.FormatTime(ts); got != "14:05" {
		t.Errorf("FormatTime = %q", got)
	}
	if ui.FormatDate(time.Time{}) != "" || ui.FormatTime(time.Time{}) != "" {
		t.Errorf("zero time should format empty")
	}
}

func TestView(t *testing.T) {
	v := ui.NewView()
	v.Register("menu", true)

	if v.Show("missing") || v.Toggle("missing") {
		t.Fatalf("unregistered id changed")
	}
	if !v.Toggle("menu") {
		t.Fatalf("Toggle(menu) = false")
	}
	if hidden, _ := v.IsHidden("menu"); hidden {
		t.Fatalf("menu still hidden after toggle")
	}
	v.Hide("menu")

	backend := store.NewMemory()
	views := ui.NewViewStore(backend, nil)
	ctx := context.Background()

	if !views.Save(ctx, ns, v) {
		t.Fatalf("Save = false")
	}
	loaded := views.Load(ctx, ns)
	if hidden, ok := loaded.IsHidden("menu"); !ok || !hidden {
		t.Fatalf("loaded view = %+v", loaded)
	}

	if err := backend.Set(ctx, ns, ui.ViewStateKey, "{broken"); err != nil {
		t.Fatal(err)
	}
	if ids := views.Load(ctx, ns).IDs(); len(ids) != 0 {
		t.Fatalf("corrupt state loaded ids %v", ids)
	}
}

func TestHelpers(t *testing.T) {
	if !ui.IsMobile(768) || ui.IsMobile(769) {
		t.Errorf("IsMobile boundary wrong")
	}
	if ui.ScrollTop(500, 80) != 420 {
		t.Errorf("ScrollTop wrong")
	}

	pct, scrolled := ui.ScrollProgress(250, 1500, 1000)
	if pct != 50 || !scrolled {
		t.Errorf("ScrollProgress = %v, %v", pct, scrolled)
	}
	if pct, _ := ui.ScrollProgress(10, 500, 800); pct != 0 {
		t.Errorf("short page progress = %v", pct)
	}

	emails := map[string]bool{
		"ana@curso.com": true,
		"ana curso.com": false,
		"":              false,
	}
	for in, want := range emails {
		if got := ui.ValidateEmail(in); got != want {
			t.Errorf("ValidateEmail(%q) = %v", in, got)
		}
	}

	id := ui.GenerateID()
	if !strings.HasPrefix(id, "id_") || len(id) != 12 || id == ui.GenerateID() {
		t.Errorf("GenerateID = %q", id)
	}
}

func TestNotifierCapsQueuePerVisitor(t *testing.T) {
	n := ui.NewNotifier(nil)
	defer n.Close()

	first := n.Show(ns, "first", ui.KindInfo, 0)
	second := n.Show(ns, "second", ui.KindInfo, time.Hour)
	for i := 0; i < 1000; i++ {
		n.Show(ns, "spam", ui.KindInfo, 0)
	}
	n.Show("visitor-b", "other", ui.KindInfo, 0)

	got := n.Pending(ns)
	if len(got) != ui.MaxPendingPerVisitor {
		t.Fatalf("pending = %d, want %d", len(got), ui.MaxPendingPerVisitor)
	}
	for _, toast := range got {
		if toast.ID == first || toast.ID == second {
			t.Fatalf("oldest toast %q survived eviction", toast.ID)
		}
		if !strings.HasPrefix(toast.ID, "id_") {
			t.Fatalf("toast id = %q", toast.ID)
		}
	}
	if n.Dismiss(ns, second) {
		t.Fatalf("evicted toast still dismissable")
	}
	if len(n.Pending("visitor-b")) != 1 {
		t.Fatalf("cap leaked across visitors")
	}
}

func TestCoalescer(t *testing.T) {
	c := ui.NewCoalescer(20 * time.Millisecond)
	defer c.Stop()

	var a, b atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		c.Call("a", func() { a.Add(1); last.Store(int32(i)) })
	}
	c.Call("b", func() { b.Add(1) })

	waitFor(t, func() bool { return a.Load() == 1 && b.Load() == 1 })
	if last.Load() != 5 {
		t.Fatalf("ran call %d, want the last one", last.Load())
	}
	waitFor(t, func() bool { return c.Pending() == 0 })

	c.Call("a", func() { a.Add(1) })
	c.Stop()
	time.Sleep(50 * time.Millisecond)
	if a.Load() != 1 {
		t.Fatalf("call ran after Stop")
	}
}
