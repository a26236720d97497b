// AngelaMos | 2026
// handler.go

package provider

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/middleware"
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

// RegisterRoutes mounts the provider routes. requireActive guards profile
// writes behind an active subscription.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireActive func(http.Handler) http.Handler,
) {
	r.Get("/providers", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/providers/me", h.GetMine)
		r.With(requireActive).Put("/providers/me", h.Upsert)
	})

	r.Get("/providers/{providerID}", h.Get)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpsertProfile(r.Context(), userID, req)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "providerID"))
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	core.OK(w, ToProviderResponse(p))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := SearchParams{
		Service:    q.Get("service"),
		City:       q.Get("city"),
		PageParams: core.ParsePage(r),
	}

	providers, total, err := h.service.Search(r.Context(), params)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	core.Paginated(w, ToProviderResponses(providers), params.Page, params.PageSize, total)
}
