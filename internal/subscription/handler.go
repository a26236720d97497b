// AngelaMos | 2026
// handler.go

package subscription

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/middleware"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBytes = 65536
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
	authenticator, writeLimit func(http.Handler) http.Handler,
) {
	r.Route("/billing", func(r chi.Router) {
		r.Post("/webhook", h.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/status", h.GetStatus)
			r.Post("/checkout-session", h.CreateCheckoutSession)
			r.With(writeLimit).Post("/confirm-session", h.ConfirmSession)
			r.Post("/cancel", h.Cancel)
			r.Post("/finalize-signup", h.FinalizeSignup)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/accounts/{userID}/subscription", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/grant", h.GrantFreeAccess)
	})
}

// Webhook must read the raw body: the signature covers the exact bytes.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		core.BadRequest(w, "missing signature")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		core.BadRequest(w, "unreadable body")
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, signature); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			slog.Warn("webhook signature rejected", "error", err)
			core.BadRequest(w, "invalid signature")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, WebhookAck{Received: true})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	state, err := h.service.Status(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "account")
		return
	}

	core.OK(w, ToStatusResponse(state, h.service.Required()))
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	url, err := h.service.CreateCheckoutSession(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "account")
		return
	}

	core.OK(w, CheckoutSessionResponse{URL: url})
}

func (h *Handler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ConfirmSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.UserID != "" && req.UserID != userID {
		core.Forbidden(w, "cannot confirm a session for another user")
		return
	}

	state, err := h.service.ConfirmSession(r.Context(), userID, req.SessionID)
	if err != nil {
		core.WriteError(w, err, "checkout session")
		return
	}

	core.OK(w, ToStatusResponse(state, h.service.Required()))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.RequestCancellation(r.Context(), userID); err != nil {
		core.WriteError(w, err, "account")
		return
	}

	core.OK(w, CancelResponse{CancelAtPeriodEnd: true})
}

func (h *Handler) FinalizeSignup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	result, err := h.service.FinalizeSignup(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "account")
		return
	}

	core.OK(w, FinalizeResponse{
		RequireSubscription: result.RequireSubscription,
		Status:              result.State.StatusValue(),
	})
}

func (h *Handler) GrantFreeAccess(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	state, err := h.service.GrantFreeAccess(r.Context(), userID)
	if err != nil {
		core.WriteError(w, err, "account")
		return
	}

	core.OK(w, ToStatusResponse(state, h.service.Required()))
}
