package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOfferStateIsTerminal(t *testing.T) {
	assert.False(t, OfferStateProposed.IsTerminal())
	assert.True(t, OfferStateAccepted.IsTerminal())
	assert.True(t, OfferStateDeclined.IsTerminal())
	assert.True(t, OfferStateExpired.IsTerminal())
}

func TestParseDecision(t *testing.T) {
	d, ok := ParseDecision(" ACCEPT ")
	assert.True(t, ok)
	assert.Equal(t, DecisionAccept, d)
	assert.Equal(t, OfferStateAccepted, d.TargetState())

	d, ok = ParseDecision("decline")
	assert.True(t, ok)
	assert.Equal(t, OfferStateDeclined, d.TargetState())

	_, ok = ParseDecision("maybe")
	assert.False(t, ok)
}

func TestOfferRecipient(t *testing.T) {
	o := Offer{BuyerID: "b1", FarmerID: "f1", InitiatorID: "b1"}
	assert.Equal(t, "f1", o.RecipientID())

	o.InitiatorID = "f1"
	assert.Equal(t, "b1", o.RecipientID())

	assert.True(t, o.IsParty("b1"))
	assert.True(t, o.IsParty("f1"))
	assert.False(t, o.IsParty("x"))
}

func TestOfferEffectiveState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Offer{State: OfferStateProposed, ExpiresAt: now.Add(time.Hour)}

	assert.Equal(t, OfferStateProposed, o.EffectiveState(now))
	assert.True(t, o.IsActive(now))
	assert.Equal(t, OfferStateExpired, o.EffectiveState(now.Add(time.Hour)), "expiry instant is inclusive")
	assert.False(t, o.IsActive(now.Add(2*time.Hour)))

	o.State = OfferStateAccepted
	assert.Equal(t, OfferStateAccepted, o.EffectiveState(now.Add(2*time.Hour)))
	assert.False(t, o.IsDue(now.Add(2*time.Hour)))
}

func TestOfferValueETB(t *testing.T) {
	o := Offer{QuantityTons: 2.5, PricePerKG: 40}
	assert.InDelta(t, 100000, o.ValueETB(), 1e-9)
}

func TestOfferEventType(t *testing.T) {
	assert.Equal(t, EventTypeOfferProposed, OfferEventType(OfferStateProposed))
	assert.Equal(t, EventTypeOfferAccepted, OfferEventType(OfferStateAccepted))
	assert.Equal(t, EventTypeOfferDeclined, OfferEventType(OfferStateDeclined))
	assert.Equal(t, EventTypeOfferExpired, OfferEventType(OfferStateExpired))
}
