// AngelaMos | 2026
// handler_test.go

package navigation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
	"github.com/carterperez-dev/templates/course-gate/internal/navigation"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T, purchased bool) http.Handler {
	t.Helper()

	f := newFixture(t)
	if purchased {
		f.session.PurchaseCourse(t.Context(), visitor)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithVisitorID(req.Context(), visitor)))
		})
	})
	r.Use(middleware.Locale("en"))
	navigation.NewHandler(f.controller(config.NavigationCheckTarget, false)).RegisterRoutes(r)
	return r
}

func request(t *testing.T, h http.Handler, method, target, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", target, err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data %s: %v", target, err)
		}
	}
	return rec.Code
}

func TestPageEndpoint(t *testing.T) {
	h := newRouter(t, false)

	var page navigation.PageResponse
	code := request(t, h, http.MethodGet,
		"/navigation?path=/modulo3/index.html&href=../modulo3/&href=../modulo4/", "", &page)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if page.Module == nil || *page.Module != 3 {
		t.Fatalf("module = %v", page.Module)
	}
	if page.BreadcrumbText != "Home → Dashboard → Módulo 3" || page.Home != "../index.html" {
		t.Fatalf("page = %+v", page)
	}
	if len(page.ActiveLinks) != 1 || page.ActiveLinks[0] != "../modulo3/" {
		t.Fatalf("active = %v", page.ActiveLinks)
	}

	var es navigation.PageResponse
	request(t, h, http.MethodGet, "/navigation?path=/dashboard/&lang=es", "", &es)
	if es.BreadcrumbText != "Inicio → Dashboard" {
		t.Fatalf("es breadcrumb = %q", es.BreadcrumbText)
	}

	if code := request(t, h, http.MethodGet, "/navigation", "", nil); code != http.StatusBadRequest {
		t.Fatalf("missing path status = %d", code)
	}
}

func TestStepEndpoints(t *testing.T) {
	h := newRouter(t, true)

	var next navigation.TransitionResponse
	request(t, h, http.MethodPost, "/navigation/next", `{"path":"/modulo2/index.html"}`, &next)
	if !next.Available || next.Transition == nil || !next.Transition.Allowed ||
		next.Transition.URL != "../modulo3/index.html" {
		t.Fatalf("next = %+v", next)
	}

	var none navigation.TransitionResponse
	request(t, h, http.MethodPost, "/navigation/next", `{"path":"/modulo5/index.html"}`, &none)
	if none.Available {
		t.Fatalf("next from last module available")
	}

	if code := request(t, h, http.MethodPost, "/navigation/previous", `{}`, nil); code != http.StatusBadRequest {
		t.Fatalf("empty path status = %d", code)
	}
}

func TestShortcutEndpoint(t *testing.T) {
	h := newRouter(t, false)

	var out navigation.ShortcutResponse
	request(t, h, http.MethodGet, "/navigation/shortcut?key=ArrowLeft&ctrl=true&path=/modulo2/index.html", "", &out)
	if out.Action != navigation.ActionPrevious || !out.Available || out.Transition.Allowed {
		t.Fatalf("shortcut = %+v", out)
	}

	var plain navigation.ShortcutResponse
	request(t, h, http.MethodGet, "/navigation/shortcut?key=ArrowLeft&path=/modulo2/index.html", "", &plain)
	if plain.Action != navigation.ActionNone || plain.Available {
		t.Fatalf("unmodified key = %+v", plain)
	}
}

func TestHelpEndpoint(t *testing.T) {
	var out navigation.HelpResponse
	request(t, newRouter(t, false), http.MethodGet, "/navigation/help", "", &out)
	if !strings.HasPrefix(out.Text, "NAVIGATION HELP") {
		t.Fatalf("help = %q", out.Text)
	}
}
