// AngelaMos | 2026
// dto.go

package account

import (
	"time"
)

type CreateAccountRequest struct {
	Email string `json:"email"        validate:"omitempty,email,max=255"`
	Name  string `json:"name"         validate:"required,min=1,max=100"`
	Phone string `json:"phone"        validate:"omitempty,max=30"`
	City  string `json:"city"         validate:"omitempty,max=100"`
	Type  string `json:"account_type" validate:"required,oneof=client provider"`
}

// UpdateAccountRequest is a patch: only non-nil fields are written.
type UpdateAccountRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	City  *string `json:"city,omitempty"  validate:"omitempty,max=100"`
}

func (r UpdateAccountRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.City == nil
}

type AccountResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email,omitempty"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone,omitempty"`
	City               string    `json:"city,omitempty"`
	Type               string    `json:"account_type"`
	SubscriptionStatus *Status   `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ToAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:                 a.ID,
		Email:              a.Email,
		Name:               a.Name,
		Phone:              a.Phone,
		City:               a.City,
		Type:               a.Type,
		SubscriptionStatus: a.SubscriptionStatus,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
