// AngelaMos | 2026
// handler.go

package review

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

// RegisterRoutes mounts the review routes. writeLimit runs after
// authentication so submissions are budgeted per reviewer.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, writeLimit func(http.Handler) http.Handler,
) {
	r.Get("/providers/{providerID}/reviews", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(writeLimit).Put("/providers/{providerID}/reviews/me", h.Submit)
		r.Get("/providers/{providerID}/reviews/me", h.GetMine)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	providerID := chi.URLParam(r, "providerID")

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.SubmitReview(r.Context(), providerID, userID, req)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	resp := SubmitReviewResponse{
		Review:      ToReviewResponse(result.Review),
		RatingCount: result.Aggregate.Count,
		RatingMean:  result.Aggregate.Mean,
	}
	if result.Created {
		core.Created(w, resp)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	page := core.ParsePage(r)

	reviews, total, err := h.service.ListReviews(r.Context(), providerID, page)
	if err != nil {
		core.WriteError(w, err, "provider")
		return
	}

	core.Paginated(w, ToListedResponses(reviews), page.Page, page.PageSize, total)
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	providerID := chi.URLParam(r, "providerID")

	review, err := h.service.GetOwnReview(r.Context(), providerID, userID)
	if err != nil {
		core.WriteError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(review))
}
