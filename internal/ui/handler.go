// AngelaMos | 2026
// handler.go

package ui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
)

type Handler struct {
	notifier        *Notifier
	views           *ViewStore
	defaultDuration time.Duration
	validator       *validator.Validate
}

func NewHandler(notifier *Notifier, views *ViewStore, defaultDuration time.Duration) *Handler {
	return &Handler{
		notifier:        notifier,
		views:           views,
		defaultDuration: defaultDuration,
		validator:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/", h.ShowNotification)
		r.Delete("/{id}", h.DismissNotification)
	})

	r.Route("/view", func(r chi.Router) {
		r.Get("/", h.GetView)
		r.Get("/layout", h.Layout)
		r.Put("/{element}", h.RegisterElement)
		r.Post("/{element}/show", h.viewOp((*View).Show))
		r.Post("/{element}/hide", h.viewOp((*View).Hide))
		r.Post("/{element}/toggle", h.viewOp((*View).Toggle))
	})
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	core.OK(w, h.notifier.Pending(visitorID))
}

// ShowNotification queues a toast. Omitting duration_ms uses the configured
// default. Toasts queued over HTTP always expire.
func (h *Handler) ShowNotification(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	var req ShowNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	kind := KindInfo
	if req.Kind != "" {
		kind = Kind(req.Kind)
	}

	duration := h.defaultDuration
	if req.DurationMS != nil {
		duration = time.Duration(*req.DurationMS) * time.Millisecond
	}

	id := h.notifier.Show(visitorID, req.Message, kind, duration)
	core.Created(w, ShowNotificationResponse{ID: id})
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	if !h.notifier.Dismiss(visitorID, chi.URLParam(r, "id")) {
		core.NotFound(w, "notification")
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	v := h.views.Load(r.Context(), visitorID)
	core.OK(w, ViewResponse{Hidden: v.Hidden})
}

func (h *Handler) RegisterElement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID := middleware.GetVisitorID(ctx)

	var req RegisterElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	v := h.views.Load(ctx, visitorID)
	v.Register(chi.URLParam(r, "element"), req.Hidden)
	h.views.Save(ctx, visitorID, v)

	core.OK(w, ViewResponse{Hidden: v.Hidden})
}

func (h *Handler) viewOp(op func(*View, string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		visitorID := middleware.GetVisitorID(ctx)

		v := h.views.Load(ctx, visitorID)
		if !op(v, chi.URLParam(r, "element")) {
			core.NotFound(w, "element")
			return
		}
		h.views.Save(ctx, visitorID, v)

		core.OK(w, ViewResponse{Hidden: v.Hidden})
	}
}

// Layout answers the viewport questions pages ask on resize and scroll:
// mobile breakpoint, reading progress and the anchor scroll target.
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req LayoutRequest
	var err error
	if req.Width, err = queryInt(q, "width"); err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	if req.OffsetTop, err = queryInt(q, "offset_top"); err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	if req.Offset, err = queryInt(q, "offset"); err != nil {
		core.BadRequest(w, err.Error())
		return
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"scroll_top", &req.ScrollTop},
		{"scroll_height", &req.ScrollHeight},
		{"viewport_height", &req.ViewportHeight},
	} {
		if *f.dst, err = queryFloat(q, f.name); err != nil {
			core.BadRequest(w, err.Error())
			return
		}
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	core.OK(w, ToLayoutResponse(req))
}

func queryInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

func queryFloat(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return v, nil
}
