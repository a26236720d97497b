// AngelaMos | 2026
// entity.go

package review

import (
	"math"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Review is the single review a reviewer holds for a provider. Submitting
// again edits it in place.
type Review struct {
	ID         string    `db:"id"`
	ProviderID string    `db:"provider_id"`
	ReviewerID string    `db:"reviewer_id"`
	Score      int       `db:"score"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type ListedReview struct {
	Review
	ReviewerName *string `db:"reviewer_name"`
}

// Aggregate is the rating summary stored on the provider row. Sum is exact;
// Mean is derived from it and rounded for display.
type Aggregate struct {
	Count int     `db:"rating_count"`
	Sum   int64   `db:"rating_sum"`
	Mean  float64 `db:"rating_mean"`
}

// Add factors a new review into the aggregate.
func (a Aggregate) Add(score int) Aggregate {
	next := Aggregate{
		Count: a.Count + 1,
		Sum:   a.Sum + int64(score),
	}
	next.Mean = meanOf(next.Sum, next.Count)
	return next
}

// Replace swaps an existing review's score. The count is unchanged.
func (a Aggregate) Replace(oldScore, newScore int) Aggregate {
	next := Aggregate{
		Count: a.Count,
		Sum:   a.Sum - int64(oldScore) + int64(newScore),
	}
	next.Mean = meanOf(next.Sum, next.Count)
	return next
}

func meanOf(sum int64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}
