// AngelaMos | 2026
// handler.go

package classified

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/classifieds", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.Create)
			r.Get("/mine", h.ListMine)
			r.Patch("/{classifiedID}", h.Update)
		})

		r.Get("/{classifiedID}", h.Get)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateClassifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.WriteError(w, err, "classified")
		return
	}

	core.Created(w, ToClassifiedResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "classifiedID"))
	if err != nil {
		core.WriteError(w, err, "classified")
		return
	}

	core.OK(w, ToClassifiedResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateClassifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "classifiedID"), req)
	if err != nil {
		core.WriteError(w, err, "classified")
		return
	}

	core.OK(w, ToClassifiedResponse(c))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		City:       r.URL.Query().Get("city"),
		PageParams: core.ParsePage(r),
	}

	items, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.WriteError(w, err, "classified")
		return
	}

	core.Paginated(w, ToClassifiedResponses(items), params.Page, params.PageSize, total)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "classified")
		return
	}

	core.OK(w, ToClassifiedResponses(items))
}
