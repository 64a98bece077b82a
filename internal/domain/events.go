package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "offer.accepted")
const (
	// EventTypeOfferProposed is published when a buyer or farmer proposes an offer
	EventTypeOfferProposed = "offer.proposed"

	// EventTypeOfferAccepted is published when the recipient accepts an offer
	EventTypeOfferAccepted = "offer.accepted"

	// EventTypeOfferDeclined is published when the recipient declines an offer
	EventTypeOfferDeclined = "offer.declined"

	// EventTypeOfferExpired is published when an offer passes its expiry unanswered
	EventTypeOfferExpired = "offer.expired"

	// EventTypeRequirementPosted is published when a buyer posts a crop requirement
	EventTypeRequirementPosted = "requirement.posted"

	// EventTypeLandRegistered is published when a farmer submits a land parcel
	EventTypeLandRegistered = "land.registered"
)

// OfferEventType maps a target state to the event emitted on entering it.
func OfferEventType(s OfferState) string {
	switch s {
	case OfferStateAccepted:
		return EventTypeOfferAccepted
	case OfferStateDeclined:
		return EventTypeOfferDeclined
	case OfferStateExpired:
		return EventTypeOfferExpired
	default:
		return EventTypeOfferProposed
	}
}
