package handler

import (
	"net/http"

	"github.com/abeleng/shemeta/internal/advisory"
	"github.com/abeleng/shemeta/internal/aggregation"
	"github.com/abeleng/shemeta/internal/domain"
)

// FarmerHandler serves the farmer side of the marketplace
type FarmerHandler struct {
	advisory    advisory.Service
	aggregation aggregation.Service
}

func NewFarmerHandler(advisorySvc advisory.Service, aggregationSvc aggregation.Service) *FarmerHandler {
	return &FarmerHandler{advisory: advisorySvc, aggregation: aggregationSvc}
}

// HandleRegisterLand stores the caller's current parcel and returns the refreshed home
// @Summary Register land
// @Tags farmer
// @Accept json
// @Produce json
// @Param request body RegisterLandRequest true "Parcel"
// @Success 201 {object} domain.FarmerHome
// @Failure 400 {object} ValidationErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/farmer/land [post]
// @Security BearerAuth
func (h *FarmerHandler) HandleRegisterLand(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleFarmer, ErrMsgFarmersOnly)
	if !ok {
		return
	}

	var req RegisterLandRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register land"); err != nil {
		return
	}

	home, err := h.advisory.RegisterLand(r.Context(), caller, advisory.LandInput{
		Region:         req.Region,
		Location:       req.Location,
		PlotSizeHa:     req.PlotSizeHa,
		Soil:           req.Soil,
		Irrigation:     req.Irrigation,
		YieldEstimates: req.YieldEstimates,
	})
	if err != nil {
		respondServiceError(w, r, "Register land", err)
		return
	}

	respondJSON(w, http.StatusCreated, home)
}

// HandleHome returns the farmer landing payload
// @Summary Farmer home
// @Tags farmer
// @Produce json
// @Success 200 {object} domain.FarmerHome
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/farmer/home [get]
// @Security BearerAuth
func (h *FarmerHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleFarmer, ErrMsgFarmersOnly)
	if !ok {
		return
	}

	home, err := h.advisory.Home(r.Context(), caller)
	if err != nil {
		respondServiceError(w, r, "Farmer home", err)
		return
	}

	respondJSON(w, http.StatusOK, home)
}

// HandleMatchedBuyers lists open requirements the caller's land can supply
// @Summary Matched buyers
// @Tags farmer
// @Produce json
// @Param crop query string true "Crop"
// @Success 200 {array} domain.BuyerMatch
// @Router /api/v1/farmer/buyers [get]
// @Security BearerAuth
func (h *FarmerHandler) HandleMatchedBuyers(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleFarmer, ErrMsgFarmersOnly)
	if !ok {
		return
	}
	crop, ok := GetQueryParam(r, w, "crop")
	if !ok {
		return
	}

	matches, err := h.advisory.MatchedBuyers(r.Context(), caller, crop)
	if err != nil {
		respondServiceError(w, r, "Matched buyers", err)
		return
	}

	respondJSON(w, http.StatusOK, matches)
}

// HandleDashboard returns the farmer rollup
// @Summary Farmer dashboard
// @Tags farmer
// @Produce json
// @Success 200 {object} domain.FarmerDashboard
// @Router /api/v1/farmer/dashboard [get]
// @Security BearerAuth
func (h *FarmerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireRole(w, r, domain.RoleFarmer, ErrMsgFarmersOnly)
	if !ok {
		return
	}

	dash, err := h.aggregation.FarmerDashboard(r.Context(), caller.UserID)
	if err != nil {
		respondServiceError(w, r, "Farmer dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, dash)
}
