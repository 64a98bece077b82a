package metrics

import (
	"context"
	"strconv"

	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all marketplace events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := append(event.OfferTypes(), event.RequirementPosted, event.LandRegistered)
	event.SubscribeAll(bus, eventTypes, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.OfferProposed, event.OfferAccepted, event.OfferDeclined, event.OfferExpired:
		p, err := event.DecodePayload[event.OfferEventPayloadV1](evt)
		if err != nil {
			log.Debug(LogMsgUnreadablePayload, "type", evt.Type, "error", err)
			return nil
		}
		OfferTransitions.WithLabelValues(string(p.State)).Inc()

	case event.RequirementPosted:
		p, err := event.DecodePayload[event.RequirementPostedPayloadV1](evt)
		if err != nil {
			log.Debug(LogMsgUnreadablePayload, "type", evt.Type, "error", err)
			return nil
		}
		RequirementsPosted.WithLabelValues(string(p.Crop)).Inc()

	case event.LandRegistered:
		p, err := event.DecodePayload[event.LandRegisteredPayloadV1](evt)
		if err != nil {
			log.Debug(LogMsgUnreadablePayload, "type", evt.Type, "error", err)
			return nil
		}
		LandsRegistered.WithLabelValues(strconv.FormatBool(p.GeoUnitID != "")).Inc()
		RecommendationsServed.Add(float64(p.Recommendations))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
