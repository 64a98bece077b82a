package domain

import (
	"strings"
	"time"
)

// OfferState is the lifecycle state of an offer.
type OfferState string

const (
	OfferStateProposed OfferState = "proposed"
	OfferStateAccepted OfferState = "accepted"
	OfferStateDeclined OfferState = "declined"
	OfferStateExpired  OfferState = "expired"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s OfferState) IsTerminal() bool {
	return s == OfferStateAccepted || s == OfferStateDeclined || s == OfferStateExpired
}

// Decision is a recipient's response to a proposed offer.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// ParseDecision normalizes s.
func ParseDecision(s string) (Decision, bool) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionAccept, DecisionDecline:
		return d, true
	}
	return "", false
}

// TargetState is the state a decision moves a proposed offer to.
func (d Decision) TargetState() OfferState {
	if d == DecisionAccept {
		return OfferStateAccepted
	}
	return OfferStateDeclined
}

// Offer is a proposed transaction between a buyer and a farmer for a requirement.
// Crop, quantity and price are copied from the requirement when the offer is made.
type Offer struct {
	ID            string     `json:"id"`
	BuyerID       string     `json:"buyer_id"`
	FarmerID      string     `json:"farmer_id"`
	RequirementID string     `json:"requirement_id"`
	InitiatorID   string     `json:"initiator_id"`
	Crop          CropName   `json:"crop"`
	QuantityTons  float64    `json:"quantity_tons"`
	PricePerKG    float64    `json:"price_per_kg"`
	State         OfferState `json:"state"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

// RecipientID is the party entitled to respond.
func (o Offer) RecipientID() string {
	if o.InitiatorID == o.BuyerID {
		return o.FarmerID
	}
	return o.BuyerID
}

// IsParty reports whether userID is the buyer or the farmer of the offer.
func (o Offer) IsParty(userID string) bool {
	return userID == o.BuyerID || userID == o.FarmerID
}

// IsDue reports whether a proposed offer has passed its expiry at t.
func (o Offer) IsDue(t time.Time) bool {
	return o.State == OfferStateProposed && !t.Before(o.ExpiresAt)
}

// EffectiveState is the state shown to users at t. A proposed offer past its
// expiry is reported as expired even before the sweep has persisted it.
func (o Offer) EffectiveState(t time.Time) OfferState {
	if o.IsDue(t) {
		return OfferStateExpired
	}
	return o.State
}

// IsActive reports whether the offer still awaits a response at t.
func (o Offer) IsActive(t time.Time) bool {
	return o.EffectiveState(t) == OfferStateProposed
}

// ValueETB is price per kg times quantity in kilograms.
func (o Offer) ValueETB() float64 {
	return o.PricePerKG * o.QuantityTons * KGPerTon
}

// OfferKey identifies the (buyer, farmer, requirement) triple that may hold at most one active offer.
type OfferKey struct {
	BuyerID       string
	FarmerID      string
	RequirementID string
}

// Key returns the offer's triple.
func (o Offer) Key() OfferKey {
	return OfferKey{BuyerID: o.BuyerID, FarmerID: o.FarmerID, RequirementID: o.RequirementID}
}

// String renders the key for lock names and log attributes.
func (k OfferKey) String() string {
	return k.BuyerID + ":" + k.FarmerID + ":" + k.RequirementID
}
