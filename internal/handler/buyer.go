package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abeleng/shemeta/internal/aggregation"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/market"
)

// HarvestDateLayout is the wire format of requirement harvest dates
const HarvestDateLayout = "2006-01-02"

// BuyerHandler serves the buyer side of the marketplace
type BuyerHandler struct {
	market      market.Service
	aggregation aggregation.Service
}

func NewBuyerHandler(marketSvc market.Service, aggregationSvc aggregation.Service) *BuyerHandler {
	return &BuyerHandler{market: marketSvc, aggregation: aggregationSvc}
}

// BuyerDashboardResponse is the dashboard rollup with per-requirement summaries
type BuyerDashboardResponse struct {
	Dashboard    *domain.BuyerDashboard      `json:"dashboard"`
	Requirements []domain.RequirementSummary `json:"requirements"`
}

// HandlePostRequirement stores a crop requirement for the caller
// @Summary Post a crop requirement
// @Tags buyer
// @Accept json
// @Produce json
// @Param request body PostRequirementRequest true "Requirement"
// @Success 201 {object} domain.CropRequirement
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/buyer/requirements [post]
// @Security BearerAuth
func (h *BuyerHandler) HandlePostRequirement(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleBuyer, ErrMsgBuyersOnly)
	if !ok {
		return
	}

	var req PostRequirementRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Post requirement"); err != nil {
		return
	}
	// Shape already checked by the datetime tag
	harvest, _ := time.Parse(HarvestDateLayout, req.HarvestDate)

	created, err := h.market.PostRequirement(r.Context(), caller, market.RequirementInput{
		Crop:         req.Crop,
		QuantityTons: req.QuantityTons,
		PricePerKG:   req.PricePerKG,
		HarvestDate:  harvest,
		Region:       req.Region,
		QualityNotes: req.QualityNotes,
	})
	if err != nil {
		respondServiceError(w, r, "Post requirement", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// HandleListRequirements lists the caller's requirements, newest first
// @Summary List own requirements
// @Tags buyer
// @Produce json
// @Success 200 {array} domain.CropRequirement
// @Router /api/v1/buyer/requirements [get]
// @Security BearerAuth
func (h *BuyerHandler) HandleListRequirements(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleBuyer, ErrMsgBuyersOnly)
	if !ok {
		return
	}

	reqs, err := h.market.ListRequirements(r.Context(), caller)
	if err != nil {
		respondServiceError(w, r, "List requirements", err)
		return
	}

	respondJSON(w, http.StatusOK, reqs)
}

// HandleMatchedFarmers ranks the farmers able to supply a requirement
// @Summary Matched farmers
// @Tags buyer
// @Produce json
// @Param id path string true "Requirement id"
// @Success 200 {array} domain.Match
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/buyer/requirements/{id}/farmers [get]
// @Security BearerAuth
func (h *BuyerHandler) HandleMatchedFarmers(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleBuyer, ErrMsgBuyersOnly)
	if !ok {
		return
	}

	matches, err := h.market.MatchedFarmers(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "Matched farmers", err)
		return
	}

	respondJSON(w, http.StatusOK, matches)
}

// HandleDashboard returns the buyer rollup
// @Summary Buyer dashboard
// @Tags buyer
// @Produce json
// @Success 200 {object} BuyerDashboardResponse
// @Router /api/v1/buyer/dashboard [get]
// @Security BearerAuth
func (h *BuyerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleBuyer, ErrMsgBuyersOnly)
	if !ok {
		return
	}

	dash, err := h.aggregation.BuyerDashboard(r.Context(), caller.UserID)
	if err != nil {
		respondServiceError(w, r, "Buyer dashboard", err)
		return
	}
	summaries, err := h.aggregation.RequirementSummaries(r.Context(), caller.UserID)
	if err != nil {
		respondServiceError(w, r, "Buyer dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, BuyerDashboardResponse{Dashboard: dash, Requirements: summaries})
}
