// AngelaMos | 2026
// handler.go

package campaign

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
	sweeper   *Sweeper
	validator *validator.Validate
}

func NewHandler(service *Service, sweeper *Sweeper) *Handler {
	return &Handler{
		service:   service,
		sweeper:   sweeper,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireActive func(http.Handler) http.Handler,
) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/active", h.ListActive)
		r.Post("/{campaignID}/view", h.RecordView)
		r.Post("/{campaignID}/click", h.RecordClick)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.With(requireActive).Post("/", h.Create)
			r.Get("/mine", h.ListMine)
			r.Post("/{campaignID}/pause", h.Pause)
			r.Post("/{campaignID}/resume", h.Resume)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/campaigns", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/sweep", h.Sweep)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCampaignRequest
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
		core.WriteError(w, err, "campaign")
		return
	}

	core.Created(w, ToCampaignResponse(c))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	campaigns, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "campaign")
		return
	}

	core.OK(w, ToCampaignResponses(campaigns))
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	campaigns, err := h.service.ListActive(r.Context(), q.Get("city"), q.Get("state"), q.Get("country"))
	if err != nil {
		core.WriteError(w, err, "campaign")
		return
	}

	core.OK(w, ToDisplayResponses(campaigns))
}

func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RecordView(r.Context(), chi.URLParam(r, "campaignID")); err != nil {
		core.WriteError(w, err, "campaign")
		return
	}
	core.NoContent(w)
}

func (h *Handler) RecordClick(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RecordClick(r.Context(), chi.URLParam(r, "campaignID")); err != nil {
		core.WriteError(w, err, "campaign")
		return
	}
	core.NoContent(w)
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *Handler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	userID := middleware.GetUserID(r.Context())

	c, err := h.service.SetPaused(r.Context(), userID, chi.URLParam(r, "campaignID"), paused)
	if err != nil {
		core.WriteError(w, err, "campaign")
		return
	}

	core.OK(w, ToCampaignResponse(c))
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	expired, skipped, err := h.sweeper.SweepOnce(r.Context())
	if err != nil {
		core.WriteError(w, err, "campaign")
		return
	}

	core.OK(w, SweepResponse{Expired: expired, Skipped: skipped})
}
