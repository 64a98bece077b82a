package worker

import (
	"context"
	"time"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
)

// OfferExpirer expires a single offer once it is due.
type OfferExpirer interface {
	Expire(ctx context.Context, offerID string) (*domain.Offer, error)
}

// OfferExpiryWorker arms a timer per proposed offer so it expires close to its
// deadline. The periodic sweep still catches offers proposed before a restart.
type OfferExpiryWorker struct {
	timers  *deadlines
	expirer OfferExpirer
	until   func(time.Time) time.Duration
}

// NewOfferExpiryWorker creates a new OfferExpiryWorker
func NewOfferExpiryWorker(expirer OfferExpirer) *OfferExpiryWorker {
	return &OfferExpiryWorker{timers: newDeadlines(), expirer: expirer, until: time.Until}
}

// Subscribe subscribes the worker to offer transitions
func (w *OfferExpiryWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.OfferProposed, w.handleProposed)
	bus.Subscribe(event.OfferAccepted, w.handleSettled)
	bus.Subscribe(event.OfferDeclined, w.handleSettled)
	bus.Subscribe(event.OfferExpired, w.handleSettled)
}

func (w *OfferExpiryWorker) handleProposed(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.OfferEventPayloadV1](e)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidOfferPayload, "error", err)
		return nil
	}
	w.Schedule(p.OfferID, p.ExpiresAt)
	return nil
}

func (w *OfferExpiryWorker) handleSettled(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.OfferEventPayloadV1](e)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidOfferPayload, "error", err)
		return nil
	}
	if w.timers.cancel(p.OfferID) {
		logger.FromContext(ctx).Debug(LogMsgCancelledOfferExpiry, "offer_id", p.OfferID, "state", p.State)
	}
	return nil
}

// Schedule arms the expiry of offerID at expiresAt. A past deadline expires
// immediately; scheduling the same offer again replaces its timer.
func (w *OfferExpiryWorker) Schedule(offerID string, expiresAt time.Time) {
	duration := w.until(expiresAt)
	if w.timers.arm(offerID, duration, func() { w.expire(offerID) }) {
		logger.FromContext(context.Background()).Debug(LogMsgSchedulingOfferExpiry, "offer_id", offerID, "duration", duration)
	}
}

// Pending returns the number of armed timers
func (w *OfferExpiryWorker) Pending() int {
	return w.timers.len()
}

func (w *OfferExpiryWorker) expire(offerID string) {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Debug(LogMsgExpiringOffer, "offer_id", offerID)

	if _, err := w.expirer.Expire(ctx, offerID); err != nil && !domain.IsRetryable(err) {
		log.Error(LogMsgFailedToExpireOffer, "offer_id", offerID, "error", err)
	}
}

// Shutdown cancels pending timers and waits for in-flight expiries. Offers
// whose timers were cancelled are picked up by the next sweep after restart.
func (w *OfferExpiryWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cancelled, err := w.timers.stop(ctx)
	if err != nil {
		log.Warn(LogMsgExpiryShutdownTimeout, "cancelled", cancelled)
		return err
	}
	log.Info(LogMsgExpiryShutdownComplete, "cancelled", cancelled)
	return nil
}
