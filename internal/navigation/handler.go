// AngelaMos | 2026
// handler.go

package navigation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
)

type Handler struct {
	controller *Controller
	validator  *validator.Validate
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{
		controller: controller,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/navigation", func(r chi.Router) {
		r.Get("/", h.Page)
		r.Post("/previous", h.step(ActionPrevious))
		r.Post("/next", h.step(ActionNext))
		r.Get("/shortcut", h.Shortcut)
		r.Get("/help", h.Help)
	})
}

// Page describes the page at ?path=, with ?href= repeated for each menu
// link to mark active ones.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		core.BadRequest(w, "path is required")
		return
	}

	items := Breadcrumbs(path, i18n.FromContext(r.Context()))
	html, err := RenderBreadcrumbs(items)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := PageResponse{
		Path:           path,
		Home:           Home(path).URL,
		Breadcrumbs:    items,
		BreadcrumbHTML: html,
		BreadcrumbText: BreadcrumbText(items),
		ActiveLinks:    ActiveLinks(path, q["href"]),
	}
	if module, ok := CurrentModule(path); ok {
		resp.Module = &module
	}

	core.OK(w, resp)
}

func (h *Handler) step(action Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID := middleware.GetVisitorID(r.Context())

		var req NavigateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}

		t, ok := h.controller.Resolve(r.Context(), visitorID, req.Path, action)
		core.OK(w, toTransitionResponse(t, ok))
	}
}

// Shortcut resolves ?key=&ctrl=&meta= on the page at ?path=.
func (h *Handler) Shortcut(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	q := r.URL.Query()

	action := Shortcut(q.Get("key"), parseBoolQuery(r, "ctrl"), parseBoolQuery(r, "meta"))
	resp := ShortcutResponse{Action: action}

	if action != ActionNone {
		t, ok := h.controller.Resolve(r.Context(), visitorID, q.Get("path"), action)
		resp.TransitionResponse = toTransitionResponse(t, ok)
	}

	core.OK(w, resp)
}

func (h *Handler) Help(w http.ResponseWriter, r *http.Request) {
	core.OK(w, HelpResponse{Text: Help(i18n.FromContext(r.Context()))})
}

func toTransitionResponse(t Transition, ok bool) TransitionResponse {
	if !ok {
		return TransitionResponse{}
	}
	return TransitionResponse{Available: true, Transition: &t}
}

func parseBoolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
