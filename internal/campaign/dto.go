// AngelaMos | 2026
// dto.go

package campaign

import (
	"time"
)

type CreateCampaignRequest struct {
	Title     string `json:"title"      validate:"required,min=3,max=120"`
	ImageRef  string `json:"image_ref"  validate:"required,url,max=512"`
	TargetURL string `json:"target_url" validate:"required,url,max=512"`
	City      string `json:"city"       validate:"required,max=80"`
	State     string `json:"state"      validate:"required,max=80"`
	Country   string `json:"country"    validate:"omitempty,len=2"`
	PlanDays  int    `json:"plan_days"  validate:"required,gt=0"`
}

type CampaignResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	ImageRef   string    `json:"image_ref"`
	TargetURL  string    `json:"target_url"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PlanDays   int       `json:"plan_days"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Status     Status    `json:"status"`
	ViewCount  int64     `json:"view_count"`
	ClickCount int64     `json:"click_count"`
}

// DisplayResponse is what viewers of an ad see; owner stats stay private.
type DisplayResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageRef  string `json:"image_ref"`
	TargetURL string `json:"target_url"`
}

type SweepResponse struct {
	Expired int64 `json:"expired"`
	Skipped bool  `json:"skipped"`
}

func ToCampaignResponse(c *Campaign) CampaignResponse {
	return CampaignResponse{
		ID:         c.ID,
		OwnerID:    c.OwnerID,
		Title:      c.Title,
		ImageRef:   c.ImageRef,
		TargetURL:  c.TargetURL,
		City:       c.City,
		State:      c.State,
		Country:    c.Country,
		PlanDays:   c.PlanDays,
		StartAt:    c.StartAt,
		EndAt:      c.EndAt,
		Status:     c.Status,
		ViewCount:  c.ViewCount,
		ClickCount: c.ClickCount,
	}
}

func ToCampaignResponses(campaigns []Campaign) []CampaignResponse {
	out := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		out[i] = ToCampaignResponse(&campaigns[i])
	}
	return out
}

func ToDisplayResponses(campaigns []Campaign) []DisplayResponse {
	out := make([]DisplayResponse, len(campaigns))
	for i, c := range campaigns {
		out[i] = DisplayResponse{
			ID:        c.ID,
			Title:     c.Title,
			ImageRef:  c.ImageRef,
			TargetURL: c.TargetURL,
		}
	}
	return out
}
