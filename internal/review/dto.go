// AngelaMos | 2026
// dto.go

package review

import (
	"time"
)

type SubmitReviewRequest struct {
	Score   int    `json:"score"   validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"provider_id"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName *string   `json:"reviewer_name"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SubmitReviewResponse struct {
	Review      ReviewResponse `json:"review"`
	RatingCount int            `json:"rating_count"`
	RatingMean  float64        `json:"rating_mean"`
}

func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		ReviewerID: r.ReviewerID,
		Score:      r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func ToListedResponses(reviews []ListedReview) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i].Review)
		out[i].ReviewerName = reviews[i].ReviewerName
	}
	return out
}
