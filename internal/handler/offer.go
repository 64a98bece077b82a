package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/offer"
)

// OfferHandler serves the offer lifecycle
type OfferHandler struct {
	service offer.Service
}

func NewOfferHandler(service offer.Service) *OfferHandler {
	return &OfferHandler{service: service}
}

// HandlePropose creates a proposed offer addressed to the counter-party
// @Summary Propose an offer
// @Tags offers
// @Accept json
// @Produce json
// @Param request body ProposeOfferRequest true "Offer"
// @Success 201 {object} domain.Offer
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/offers [post]
// @Security BearerAuth
func (h *OfferHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req ProposeOfferRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Propose offer"); err != nil {
		return
	}

	created, err := h.service.Propose(r.Context(), caller, offer.ProposeInput{
		RequirementID: req.RequirementID,
		FarmerID:      req.FarmerID,
	})
	if err != nil {
		respondOfferError(w, r, "Propose offer", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// HandleList lists the offers the caller is party to
// @Summary List own offers
// @Tags offers
// @Produce json
// @Success 200 {array} domain.Offer
// @Router /api/v1/offers [get]
// @Security BearerAuth
func (h *OfferHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	offers, err := h.service.ListForUser(r.Context(), caller)
	if err != nil {
		respondServiceError(w, r, "List offers", err)
		return
	}

	respondJSON(w, http.StatusOK, offers)
}

// HandleGet returns one offer the caller is party to
// @Summary Get an offer
// @Tags offers
// @Produce json
// @Param id path string true "Offer id"
// @Success 200 {object} domain.Offer
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/offers/{id} [get]
// @Security BearerAuth
func (h *OfferHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	o, err := h.service.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "Get offer", err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// HandleRespond accepts or declines a proposed offer
// @Summary Respond to an offer
// @Tags offers
// @Accept json
// @Produce json
// @Param id path string true "Offer id"
// @Param request body RespondOfferRequest true "Decision"
// @Success 200 {object} domain.Offer
// @Failure 409 {object} ErrorResponse "Offer closed or concurrently changed (retryable)"
// @Router /api/v1/offers/{id}/respond [post]
// @Security BearerAuth
func (h *OfferHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req RespondOfferRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Respond to offer"); err != nil {
		return
	}
	decision, _ := domain.ParseDecision(req.Decision)

	o, err := h.service.Respond(r.Context(), caller, chi.URLParam(r, "id"), decision)
	if err != nil {
		respondOfferError(w, r, "Respond to offer", err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}
