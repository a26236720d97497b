// AngelaMos | 2026
// dto.go

package subscription

import (
	"github.com/josealexandro/chaama/internal/account"
)

type ConfirmSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,max=255"`
	UserID    string `json:"uid"        validate:"omitempty,max=128"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Status               account.Status `json:"subscription_status"`
	Active               bool           `json:"active"`
	HasSubscription      bool           `json:"has_subscription"`
	SubscriptionRequired bool           `json:"subscription_required"`
}

type FinalizeResponse struct {
	RequireSubscription bool           `json:"require_subscription"`
	Status              account.Status `json:"subscription_status"`
}

type CancelResponse struct {
	CancelAtPeriodEnd bool `json:"cancel_at_period_end"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}

func ToStatusResponse(state *State, required bool) StatusResponse {
	return StatusResponse{
		Status:               state.StatusValue(),
		Active:               state.IsActive(),
		HasSubscription:      state.SubscriptionRef != nil && *state.SubscriptionRef != "",
		SubscriptionRequired: required,
	}
}
