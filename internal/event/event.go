package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	ID       string      `json:"id"`      // Unique per published event; consumers use it to drop redeliveries
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Marketplace event types
const (
	OfferProposed     Type = domain.EventTypeOfferProposed
	OfferAccepted     Type = domain.EventTypeOfferAccepted
	OfferDeclined     Type = domain.EventTypeOfferDeclined
	OfferExpired      Type = domain.EventTypeOfferExpired
	RequirementPosted Type = domain.EventTypeRequirementPosted
	LandRegistered    Type = domain.EventTypeLandRegistered
)

// OfferTypes lists every offer transition event.
func OfferTypes() []Type {
	return []Type{OfferProposed, OfferAccepted, OfferDeclined, OfferExpired}
}

// Typed event payloads for type safety

// OfferEventPayloadV1 is the typed payload for every offer transition.
// NotifyUserIDs holds the counter-parties of the actor; for the system-driven
// expiry it holds both parties.
type OfferEventPayloadV1 struct {
	OfferID       string            `json:"offer_id"`
	RequirementID string            `json:"requirement_id"`
	BuyerID       string            `json:"buyer_id"`
	FarmerID      string            `json:"farmer_id"`
	InitiatorID   string            `json:"initiator_id"`
	ActorID       string            `json:"actor_id,omitempty"`
	NotifyUserIDs []string          `json:"notify_user_ids"`
	Crop          domain.CropName   `json:"crop"`
	QuantityTons  float64           `json:"quantity_tons"`
	PricePerKG    float64           `json:"price_per_kg"`
	FromState     domain.OfferState `json:"from_state,omitempty"`
	State         domain.OfferState `json:"state"`
	Version       int               `json:"version"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Timestamp     int64             `json:"timestamp"`
}

// RequirementPostedPayloadV1 is the typed payload for requirement.posted events
type RequirementPostedPayloadV1 struct {
	RequirementID string          `json:"requirement_id"`
	BuyerID       string          `json:"buyer_id"`
	Crop          domain.CropName `json:"crop"`
	QuantityTons  float64         `json:"quantity_tons"`
	PricePerKG    float64         `json:"price_per_kg"`
	Region        domain.Region   `json:"region"`
	HarvestDate   time.Time       `json:"harvest_date"`
	Timestamp     int64           `json:"timestamp"`
}

// LandRegisteredPayloadV1 is the typed payload for land.registered events
type LandRegisteredPayloadV1 struct {
	LandID          string        `json:"land_id"`
	FarmerID        string        `json:"farmer_id"`
	Region          domain.Region `json:"region"`
	GeoUnitID       string        `json:"geo_unit_id,omitempty"`
	Recommendations int           `json:"recommendations"`
	Timestamp       int64         `json:"timestamp"`
}

// Type-safe event constructors

// NewOfferEvent creates the event for an offer entering its current state.
// actorID is empty for system transitions.
func NewOfferEvent(offer domain.Offer, from domain.OfferState, actorID string, at time.Time) Event {
	var notify []string
	switch {
	case actorID == "":
		notify = []string{offer.BuyerID, offer.FarmerID}
	case actorID == offer.BuyerID:
		notify = []string{offer.FarmerID}
	default:
		notify = []string{offer.BuyerID}
	}

	return Event{
		ID:      uuid.NewString(),
		Version: EventSchemaVersion,
		Type:    Type(domain.OfferEventType(offer.State)),
		Payload: OfferEventPayloadV1{
			OfferID:       offer.ID,
			RequirementID: offer.RequirementID,
			BuyerID:       offer.BuyerID,
			FarmerID:      offer.FarmerID,
			InitiatorID:   offer.InitiatorID,
			ActorID:       actorID,
			NotifyUserIDs: notify,
			Crop:          offer.Crop,
			QuantityTons:  offer.QuantityTons,
			PricePerKG:    offer.PricePerKG,
			FromState:     from,
			State:         offer.State,
			Version:       offer.Version,
			ExpiresAt:     offer.ExpiresAt,
			Timestamp:     at.Unix(),
		},
		Metadata: map[string]interface{}{
			"offer_id": offer.ID,
		},
	}
}

// NewRequirementPostedEvent creates a new requirement posted event
func NewRequirementPostedEvent(req domain.CropRequirement) Event {
	return Event{
		ID:      uuid.NewString(),
		Version: EventSchemaVersion,
		Type:    RequirementPosted,
		Payload: RequirementPostedPayloadV1{
			RequirementID: req.ID,
			BuyerID:       req.BuyerID,
			Crop:          req.Crop,
			QuantityTons:  req.QuantityTons,
			PricePerKG:    req.PricePerKG,
			Region:        req.Region,
			HarvestDate:   req.HarvestDate,
			Timestamp:     req.CreatedAt.Unix(),
		},
	}
}

// NewLandRegisteredEvent creates a new land registered event
func NewLandRegisteredEvent(land domain.LandParcel, recommendations int) Event {
	p := LandRegisteredPayloadV1{
		LandID:          land.ID,
		FarmerID:        land.FarmerID,
		Region:          land.Region,
		Recommendations: recommendations,
		Timestamp:       land.CreatedAt.Unix(),
	}
	if land.GeoUnitID != nil {
		p.GeoUnitID = *land.GeoUnitID
	}
	return Event{
		ID:      uuid.NewString(),
		Version: EventSchemaVersion,
		Type:    LandRegistered,
		Payload: p,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus defines the interface for an event bus
type Bus interface {
	Publisher
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", ErrMsgHandlersFailed, event.Type, errors.Join(errs...))
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to each of the given types.
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
