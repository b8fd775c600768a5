// AngelaMos | 2026
// navigation_test.go

package navigation_test

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/navigation"
	"github.com/carterperez-dev/templates/course-gate/internal/progress"
	"github.com/carterperez-dev/templates/course-gate/internal/session"
	"github.com/carterperez-dev/templates/course-gate/internal/store"
)

const visitor = "5e8a1f00-0000-4000-8000-000000000003"

type fixture struct {
	session  *session.Service
	progress *progress.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := store.NewMemory()
	return fixture{
		session:  session.NewService(backend, nil, session.Options{}),
		progress: progress.NewService(backend, nil, nil),
	}
}

func (f fixture) controller(check string, order bool) *navigation.Controller {
	return navigation.NewController(f.session, f.progress, navigation.Options{
		Check:              check,
		EnforceUnlockOrder: order,
	})
}

func TestCurrentModule(t *testing.T) {
	tests := []struct {
		path   string
		want   int
		wantOK bool
	}{
		{"/dashboard/index.html", 0, true},
		{"/modulo1/index.html", 1, true},
		{"/curso/modulo5/index.html", 5, true},
		{"/index.html", 0, false},
		{"/modulo9/index.html", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := navigation.CurrentModule(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CurrentModule(%q) = (%d, %v), want (%d, %v)",
				tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNextAndPreviousURLs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.session.PurchaseCourse(ctx, visitor)
	c := f.controller(config.NavigationCheckTarget, false)

	next, ok := c.Next(ctx, visitor, "/dashboard/index.html")
	if !ok || next.URL != "../modulo1/index.html" || !next.Allowed {
		t.Fatalf("Next from dashboard = %+v, %v", next, ok)
	}

	prev, ok := c.Previous(ctx, visitor, "/modulo3/index.html")
	if !ok || prev.URL != "../modulo2/index.html" || prev.To != 2 || !prev.Allowed {
		t.Fatalf("Previous from modulo3 = %+v, %v", prev, ok)
	}

	if _, ok := c.Next(ctx, visitor, "/modulo5/index.html"); ok {
		t.Fatalf("Next from last module should have no target")
	}
	if _, ok := c.Previous(ctx, visitor, "/dashboard/index.html"); ok {
		t.Fatalf("Previous from dashboard should have no target")
	}
	if _, ok := c.Next(ctx, visitor, "/index.html"); ok {
		t.Fatalf("Next from landing page should have no target")
	}
}

func TestTransitionsNeedAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.controller(config.NavigationCheckTarget, false)

	next, ok := c.Next(ctx, visitor, "/modulo1/index.html")
	if !ok || next.Allowed {
		t.Fatalf("anonymous Next = %+v", next)
	}

	if _, err := f.session.Login(ctx, visitor, "demo", "demo123"); err != nil {
		t.Fatal(err)
	}
	if next, _ = c.Next(ctx, visitor, "/modulo1/index.html"); next.Allowed {
		t.Fatalf("Next without purchase allowed")
	}
}

func TestDashboardCheckModes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.session.PurchaseCourse(ctx, visitor)

	target, _ := f.controller(config.NavigationCheckTarget, false).
		Previous(ctx, visitor, "/modulo1/index.html")
	if !target.Allowed || target.URL != "../dashboard/index.html" {
		t.Fatalf("target mode module1 -> dashboard = %+v", target)
	}

	adjacent, _ := f.controller(config.NavigationCheckAdjacent, false).
		Previous(ctx, visitor, "/modulo1/index.html")
	if adjacent.Allowed {
		t.Fatalf("adjacent mode should refuse module1 -> dashboard")
	}

	between, _ := f.controller(config.NavigationCheckAdjacent, false).
		Previous(ctx, visitor, "/modulo4/index.html")
	if !between.Allowed {
		t.Fatalf("adjacent mode refused module4 -> module3")
	}
}

func TestEnforceUnlockOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.session.PurchaseCourse(ctx, visitor)
	c := f.controller(config.NavigationCheckTarget, true)

	next, _ := c.Next(ctx, visitor, "/modulo1/index.html")
	if next.Allowed {
		t.Fatalf("module 2 reachable before module 1 completed")
	}

	if err := f.progress.MarkCompleted(ctx, visitor, 1); err != nil {
		t.Fatal(err)
	}
	if next, _ = c.Next(ctx, visitor, "/modulo1/index.html"); !next.Allowed {
		t.Fatalf("module 2 refused after module 1 completed")
	}

	back, _ := c.Previous(ctx, visitor, "/modulo1/index.html")
	if !back.Allowed {
		t.Fatalf("dashboard is outside the unlock order")
	}
}

func TestResolveAndShortcut(t *testing.T) {
	tests := []struct {
		key        string
		ctrl, meta bool
		want       navigation.Action
	}{
		{"ArrowLeft", true, false, navigation.ActionPrevious},
		{"ArrowRight", false, true, navigation.ActionNext},
		{"h", true, false, navigation.ActionHome},
		{"H", false, true, navigation.ActionHome},
		{"ArrowLeft", false, false, navigation.ActionNone},
		{"x", true, false, navigation.ActionNone},
	}
	for _, tt := range tests {
		if got := navigation.Shortcut(tt.key, tt.ctrl, tt.meta); got != tt.want {
			t.Errorf("Shortcut(%q, %v, %v) = %q, want %q", tt.key, tt.ctrl, tt.meta, got, tt.want)
		}
	}

	f := newFixture(t)
	c := f.controller("", false)
	home, ok := c.Resolve(context.Background(), visitor, "/modulo2/index.html", navigation.ActionHome)
	if !ok || home.URL != "../index.html" || !home.Allowed || home.To != navigation.HomePage {
		t.Fatalf("home = %+v", home)
	}
	if _, ok := c.Resolve(context.Background(), visitor, "/modulo2/index.html", navigation.ActionNone); ok {
		t.Fatalf("ActionNone resolved")
	}
}

var tags = regexp.MustCompile(`<[^>]*>`)

func TestBreadcrumbs(t *testing.T) {
	en := i18n.Printer("en")

	items := navigation.Breadcrumbs("/curso/modulo3/index.html", en)
	html, err := navigation.RenderBreadcrumbs(items)
	if err != nil {
		t.Fatalf("RenderBreadcrumbs: %v", err)
	}

	if got := tags.ReplaceAllString(string(html), ""); got != "Home → Dashboard → Módulo 3" {
		t.Errorf("rendered text = %q", got)
	}
	if !strings.Contains(string(html), `<a href="../dashboard/index.html">Dashboard</a>`) {
		t.Errorf("dashboard link missing: %s", html)
	}
	if !strings.Contains(string(html), `<span class="breadcrumb-separator">→</span>`) {
		t.Errorf("separator missing: %s", html)
	}
	if got := navigation.BreadcrumbText(items); got != "Home → Dashboard → Módulo 3" {
		t.Errorf("BreadcrumbText = %q", got)
	}

	es := navigation.Breadcrumbs("/dashboard/index.html", i18n.Printer("es"))
	want := []navigation.BreadcrumbItem{
		{Label: "Inicio", URL: "../index.html"},
		{Label: "Dashboard"},
	}
	if !reflect.DeepEqual(es, want) {
		t.Errorf("es dashboard = %+v", es)
	}

	if got := navigation.Breadcrumbs("/index.html", en); len(got) != 1 {
		t.Errorf("landing breadcrumbs = %+v", got)
	}
}

func TestActiveLinks(t *testing.T) {
	hrefs := []string{"../dashboard/index.html", "../modulo2/", "./modulo3/", ""}

	got := navigation.ActiveLinks("/curso/modulo2/index.html", hrefs)
	if !reflect.DeepEqual(got, []string{"../modulo2/"}) {
		t.Errorf("ActiveLinks = %v", got)
	}
}

func TestHelp(t *testing.T) {
	if help := navigation.Help(i18n.Printer("es")); !strings.HasPrefix(help, "AYUDA DE NAVEGACIÓN") {
		t.Errorf("es help = %q", help)
	}
}
