// AngelaMos | 2026
// handler.go

package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
	"github.com/carterperez-dev/templates/course-gate/internal/i18n"
	"github.com/carterperez-dev/templates/course-gate/internal/middleware"
	"github.com/carterperez-dev/templates/course-gate/internal/ui"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/purchase", h.Purchase)
		r.Get("/access/{module}", h.ModuleAccess)
		r.Post("/protect", h.Protect)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())
	core.OK(w, ToSessionResponse(h.service.Snapshot(r.Context(), visitorID)))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}
	if strings.Contains(req.Identifier, "@") && !ui.ValidateEmail(req.Identifier) {
		core.BadRequest(w, "identifier is not a valid email")
		return
	}

	ok, err := h.service.Login(r.Context(), visitorID, req.Identifier, req.Secret)
	if err != nil {
		core.JSONError(w, core.StorageUnavailableError(err))
		return
	}
	if !ok {
		core.JSONError(w, core.InvalidCredentialsError())
		return
	}

	core.OK(w, ToSessionResponse(h.service.Snapshot(r.Context(), visitorID)))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	redirect := h.service.Logout(r.Context(), visitorID, req.CurrentPath)
	core.OK(w, LogoutResponse{Redirect: redirect})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	if !h.service.PurchaseCourse(r.Context(), visitorID) {
		core.JSONError(w, core.StorageUnavailableError(core.ErrStorageUnavailable))
		return
	}
	core.OK(w, ToSessionResponse(h.service.Snapshot(r.Context(), visitorID)))
}

func (h *Handler) ModuleAccess(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	module, err := strconv.Atoi(chi.URLParam(r, "module"))
	if err != nil {
		core.BadRequest(w, "module must be a number")
		return
	}

	core.OK(w, ModuleAccessResponse{
		Module:    module,
		HasAccess: h.service.HasModuleAccess(r.Context(), visitorID, module),
	})
}

// Protect answers 403 with the page to redirect to when the visitor lacks
// login and purchase.
func (h *Handler) Protect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID := middleware.GetVisitorID(ctx)

	p := h.service.ProtectPage(ctx, visitorID)
	if !p.Allowed {
		msg := i18n.FromContext(ctx).Sprintf(p.Message)
		core.JSONError(w, core.AccessDeniedError(msg, p.Redirect))
		return
	}

	core.OK(w, ProtectResponse{Allowed: true, TestMode: p.TestMode})
}
