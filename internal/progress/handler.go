// AngelaMos | 2026
// handler.go

package progress

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
)

type Handler struct {
	service *Service
	// debug exposes the per-module report; off in production.
	debug bool
}

func NewHandler(service *Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/progress", func(r chi.Router) {
		r.Get("/", h.Get)
		if h.debug {
			r.Get("/debug", h.Debug)
		}
		r.Route("/modules/{module}", func(r chi.Router) {
			r.Get("/", h.Module)
			r.Post("/init", h.Init)
			r.Post("/complete", h.Complete)
		})
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	core.OK(w, h.service.CourseProgress(r.Context(), visitorID))
}

func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	core.OK(w, h.service.Debug(r.Context(), visitorID))
}

func (h *Handler) Module(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	module, ok := moduleParam(w, r)
	if !ok {
		return
	}

	core.OK(w, ModuleResponse{
		Module:    module,
		Completed: h.service.IsCompleted(r.Context(), visitorID, module),
		CanAccess: h.service.CanAccess(r.Context(), visitorID, module),
	})
}

func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	module, ok := moduleParam(w, r)
	if !ok {
		return
	}

	status, err := h.service.InitForModule(r.Context(), visitorID, module)
	if err != nil {
		writeModuleError(w, module, err)
		return
	}

	core.OK(w, status)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID := middleware.GetVisitorID(ctx)

	module, ok := moduleParam(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkCompleted(ctx, visitorID, module); err != nil {
		writeModuleError(w, module, err)
		return
	}

	c := NewCompletion(module)
	p := i18n.FromContext(ctx)

	core.OK(w, CompleteResponse{
		Module:       c.Module,
		NextModule:   c.NextModule,
		CourseFinish: c.CourseFinish,
		Title:        c.Title(p),
		Detail:       c.Detail(p),
		Progress:     h.service.CourseProgress(ctx, visitorID),
	})
}

func moduleParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	module, err := strconv.Atoi(chi.URLParam(r, "module"))
	if err != nil {
		core.BadRequest(w, "module must be a number")
		return 0, false
	}
	return module, true
}

func writeModuleError(w http.ResponseWriter, module int, err error) {
	if errors.Is(err, core.ErrInvalidModule) {
		core.JSONError(w, core.InvalidModuleError(module))
		return
	}
	core.InternalServerError(w, err)
}
