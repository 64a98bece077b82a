// Package notify turns offer events into notifications and fans them out to
// delivery sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
)

// Notification is one message addressed to a set of users.
type Notification struct {
	EventID string                    `json:"event_id"`
	Type    event.Type                `json:"type"`
	UserIDs []string                  `json:"-"`
	Title   string                    `json:"title"`
	Message string                    `json:"message"`
	Offer   event.OfferEventPayloadV1 `json:"offer"`
	At      time.Time                 `json:"at"`
}

// Sink delivers notifications somewhere
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// Dispatcher subscribes to offer events and hands each one to every sink once.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a dispatcher over sinks
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Subscribe registers the dispatcher for every offer transition. Redelivered
// events are dropped by id.
func (d *Dispatcher) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, event.OfferTypes(), event.Dedupe(event.DefaultDedupeSize, d.Handle))
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	logger.FromContext(context.Background()).Info(LogMsgDispatcherActive, "sinks", names)
}

// Handle builds the notification for e and delivers it. Sink errors are joined
// so the resilient publisher can retry the event.
func (d *Dispatcher) Handle(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.OfferEventPayloadV1](e)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "event_type", e.Type, "error", err)
		return nil
	}
	n := Build(e.ID, e.Type, p)

	var errs []error
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, n); err != nil {
			logger.FromContext(ctx).Error(LogMsgSinkFailed, "sink", s.Name(), "event_id", e.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s %s: %w", ErrMsgSinkFailed, s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Build renders the notification for an offer event
func Build(eventID string, t event.Type, p event.OfferEventPayloadV1) Notification {
	crop := catalog.DisplayName(p.Crop)
	terms := fmt.Sprintf("%s, %g t at %g %s/kg", crop, p.QuantityTons, p.PricePerKG, domain.Currency)

	var title, message string
	switch t {
	case event.OfferAccepted:
		title = "Offer accepted"
		message = "Your offer was accepted: " + terms
	case event.OfferDeclined:
		title = "Offer declined"
		message = "Your offer was declined: " + terms
	case event.OfferExpired:
		title = "Offer expired"
		message = "An offer expired without a response: " + terms
	default:
		title = "New offer"
		message = fmt.Sprintf("New offer for %s, respond before %s", terms, p.ExpiresAt.UTC().Format(time.RFC1123))
	}

	return Notification{
		EventID: eventID,
		Type:    t,
		UserIDs: p.NotifyUserIDs,
		Title:   title,
		Message: message,
		Offer:   p,
		At:      time.Unix(p.Timestamp, 0).UTC(),
	}
}
