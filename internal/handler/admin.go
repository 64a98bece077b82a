package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/offer"
)

// ExpirySweepResponse reports how many offers a sweep expired
type ExpirySweepResponse struct {
	Message string `json:"message"`
	Expired int    `json:"expired"`
}

// HandleExpireOffers runs the expiry sweep now (admin only)
// @Summary Run the offer expiry sweep
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum offers to expire"
// @Success 200 {object} ExpirySweepResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/offers/expire [post]
// @Security BearerAuth
func HandleExpireOffers(svc offer.Service, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireRole(w, r, domain.RoleAdmin, ErrMsgAdminsOnly)
		if !ok {
			return
		}

		limit := offer.DefaultExpiryBatchSize
		if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = n
		}

		expired, err := svc.ExpireDue(r.Context(), now().UTC(), limit)
		if err != nil {
			respondServiceError(w, r, "Expire offers", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgExpirySweepAdmin, "admin_id", caller.UserID, "expired", expired)
		respondJSON(w, http.StatusOK, ExpirySweepResponse{Message: MsgExpirySweepDone, Expired: expired})
	}
}
