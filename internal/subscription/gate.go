// AngelaMos | 2026
// gate.go

package subscription

import (
	"errors"
	"net/http"

	"github.com/josealexandro/chaama/internal/core"
	"github.com/josealexandro/chaama/internal/middleware"
)

// RequireActive admits only providers whose subscription is active. Pending
// providers are refused here even though their profile document exists.
func (s *Service) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if userID == "" {
			core.Unauthorized(w, "authentication required")
			return
		}

		state, err := s.repo.GetState(r.Context(), userID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				core.Forbidden(w, "complete your account signup first")
				return
			}
			core.InternalServerError(w, err)
			return
		}

		if !state.IsProvider() {
			core.Forbidden(w, "only provider accounts can do this")
			return
		}

		if !state.IsActive() {
			core.JSONError(w, core.PaymentRequiredError())
			return
		}

		next.ServeHTTP(w, r)
	})
}
