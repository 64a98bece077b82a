// Package offer implements the offer state machine between buyers and farmers.
package offer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/concurrency"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/repository"
)

// Service defines the interface for offer lifecycle operations
type Service interface {
	Propose(ctx context.Context, caller domain.Identity, in ProposeInput) (*domain.Offer, error)
	Respond(ctx context.Context, caller domain.Identity, offerID string, decision domain.Decision) (*domain.Offer, error)
	Expire(ctx context.Context, offerID string) (*domain.Offer, error)
	ExpireDue(ctx context.Context, asOf time.Time, limit int) (int, error)
	Get(ctx context.Context, caller domain.Identity, offerID string) (*domain.Offer, error)
	ListForUser(ctx context.Context, caller domain.Identity) ([]domain.Offer, error)
}

// ProposeInput identifies the offer to create. A buyer names the farmer; a
// farmer proposes to a requirement and FarmerID may be left empty.
type ProposeInput struct {
	RequirementID string
	FarmerID      string
}

// Config tunes the lifecycle.
type Config struct {
	TTL time.Duration
	Now func() time.Time
}

type service struct {
	offers       repository.Offer
	requirements repository.Requirement
	users        repository.User
	publisher    event.Publisher
	locks        *concurrency.LockManager
	ttl          time.Duration
	now          func() time.Time
}

// NewService creates a new offer service
func NewService(offers repository.Offer, requirements repository.Requirement, users repository.User, publisher event.Publisher, cfg Config) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{
		offers:       offers,
		requirements: requirements,
		users:        users,
		publisher:    publisher,
		locks:        concurrency.NewLockManager(),
		ttl:          cfg.TTL,
		now:          func() time.Time { return cfg.Now().UTC() },
	}
}

// Propose creates a Proposed offer. A second proposal for the same
// (buyer, farmer, requirement) while one is active fails with ErrDuplicateOffer.
func (s *service) Propose(ctx context.Context, caller domain.Identity, in ProposeInput) (*domain.Offer, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	if in.RequirementID == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgRequirementRequired)
	}

	req, err := s.requirements.GetRequirement(ctx, in.RequirementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadRequirement, err)
	}

	var farmerID string
	switch caller.Role {
	case domain.RoleBuyer:
		if req.BuyerID != caller.UserID {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotRequirementOwner)
		}
		if in.FarmerID == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgFarmerRequired)
		}
		if in.FarmerID == caller.UserID {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgSelfOffer)
		}
		if err := s.requireFarmer(ctx, in.FarmerID); err != nil {
			return nil, err
		}
		farmerID = in.FarmerID
	case domain.RoleFarmer:
		if in.FarmerID != "" && in.FarmerID != caller.UserID {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotParty)
		}
		farmerID = caller.UserID
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgRoleCannotPropose)
	}

	now := s.now()
	if !req.IsOpen(now) {
		return nil, fmt.Errorf("%w: requirement %s", domain.ErrHarvestPassed, req.ID)
	}

	key := domain.OfferKey{BuyerID: req.BuyerID, FarmerID: farmerID, RequirementID: req.ID}
	unlock := s.locks.Lock(key.String())
	defer unlock()

	existing, err := s.offers.FindProposedOffer(ctx, key)
	switch {
	case errors.Is(err, domain.ErrOfferNotFound):
	case err != nil:
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadOffer, err)
	case existing.IsDue(now):
		// A stale proposal still counts as active in storage until swept.
		if _, err := s.expire(ctx, existing, now); err != nil && !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		logger.FromContext(ctx).Info(LogMsgStaleOfferExpired, "offer_id", existing.ID)
	default:
		return nil, fmt.Errorf("%w: offer %s", domain.ErrDuplicateOffer, existing.ID)
	}

	expiresAt := now.Add(s.ttl)
	if deadline := req.HarvestDeadline(); deadline.Before(expiresAt) {
		expiresAt = deadline
	}

	o := &domain.Offer{
		ID:            uuid.NewString(),
		BuyerID:       req.BuyerID,
		FarmerID:      farmerID,
		RequirementID: req.ID,
		InitiatorID:   caller.UserID,
		Crop:          req.Crop,
		QuantityTons:  req.QuantityTons,
		PricePerKG:    req.PricePerKG,
		State:         domain.OfferStateProposed,
		Version:       1,
		CreatedAt:     now,
		ExpiresAt:     expiresAt,
		UpdatedAt:     now,
	}
	if err := s.offers.CreateOffer(ctx, o); err != nil {
		if errors.Is(err, domain.ErrDuplicateOffer) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateOffer, err)
	}

	s.publish(ctx, event.NewOfferEvent(*o, "", caller.UserID, now))
	logger.FromContext(ctx).Info(LogMsgOfferProposed,
		"offer_id", o.ID, "requirement_id", o.RequirementID, "buyer_id", o.BuyerID, "farmer_id", o.FarmerID)
	return o, nil
}

func (s *service) requireFarmer(ctx context.Context, userID string) error {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadUser, err)
	}
	if u.Role != domain.RoleFarmer {
		return fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgNotAFarmer)
	}
	return nil
}

// Respond applies the recipient's decision to a Proposed offer.
func (s *service) Respond(ctx context.Context, caller domain.Identity, offerID string, decision domain.Decision) (*domain.Offer, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	if _, ok := domain.ParseDecision(string(decision)); !ok {
		return nil, domain.ErrInvalidDecision
	}

	o, err := s.offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadOffer, err)
	}
	if !o.IsParty(caller.UserID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotParty)
	}
	if caller.UserID != o.RecipientID() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotRecipient)
	}
	if o.State != domain.OfferStateProposed {
		return nil, fmt.Errorf("%w: offer %s is %s", domain.ErrInvalidTransition, o.ID, o.State)
	}

	now := s.now()
	if o.IsDue(now) {
		if _, err := s.expire(ctx, o, now); err != nil && !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, ErrMsgOfferExpired)
	}

	updated, err := s.transition(ctx, o, decision.TargetState(), now)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewOfferEvent(*updated, domain.OfferStateProposed, caller.UserID, now))
	logger.FromContext(ctx).Info(LogMsgOfferResponded, "offer_id", o.ID, "state", updated.State)
	return updated, nil
}

// Expire moves a due Proposed offer to Expired. It is a no-op for terminal
// offers and for offers not yet due.
func (s *service) Expire(ctx context.Context, offerID string) (*domain.Offer, error) {
	o, err := s.offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadOffer, err)
	}
	now := s.now()
	if !o.IsDue(now) {
		return o, nil
	}

	updated, err := s.expire(ctx, o, now)
	if errors.Is(err, domain.ErrConflict) {
		// Lost to a concurrent writer; whatever it did is terminal or newer.
		current, gerr := s.offers.GetOffer(ctx, offerID)
		if gerr != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgLoadOffer, gerr)
		}
		if current.State.IsTerminal() {
			return current, nil
		}
		return nil, err
	}
	return updated, err
}

// ExpireDue expires up to limit offers whose expiry is at or before asOf and
// returns how many it expired.
func (s *service) ExpireDue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultExpiryBatchSize
	}
	due, err := s.offers.ListDueOffers(ctx, asOf, limit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}

	log := logger.FromContext(ctx)
	expired := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		at := s.now()
		if at.Before(asOf) {
			at = asOf
		}
		if _, err := s.expire(ctx, &due[i], at); err != nil {
			log.Warn(LogMsgExpirySkipConflict, "offer_id", due[i].ID, "error", err)
			continue
		}
		expired++
	}
	log.Info(LogMsgExpirySweep, "due", len(due), "expired", expired)
	return expired, nil
}

func (s *service) expire(ctx context.Context, o *domain.Offer, now time.Time) (*domain.Offer, error) {
	updated, err := s.transition(ctx, o, domain.OfferStateExpired, now)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewOfferEvent(*updated, domain.OfferStateProposed, "", now))
	logger.FromContext(ctx).Info(LogMsgOfferExpired, "offer_id", o.ID)
	return updated, nil
}

// transition performs the compare-and-set from Proposed at o.Version.
func (s *service) transition(ctx context.Context, o *domain.Offer, target domain.OfferState, now time.Time) (*domain.Offer, error) {
	rows, err := s.offers.UpdateOfferStateIfMatches(ctx, o.ID, o.Version, target, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateOffer, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrConflict, ErrMsgStateChanged, o.ID)
	}

	updated := *o
	updated.State = target
	updated.Version = o.Version + 1
	updated.UpdatedAt = now
	if target != domain.OfferStateExpired {
		respondedAt := now
		updated.RespondedAt = &respondedAt
	}
	return &updated, nil
}

// Get returns an offer visible to caller, with an overdue proposal shown as expired.
func (s *service) Get(ctx context.Context, caller domain.Identity, offerID string) (*domain.Offer, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	o, err := s.offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadOffer, err)
	}
	if caller.Role != domain.RoleAdmin && !o.IsParty(caller.UserID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotParty)
	}
	view := project(*o, s.now())
	return &view, nil
}

// ListForUser returns the caller's offers, newest first.
func (s *service) ListForUser(ctx context.Context, caller domain.Identity) ([]domain.Offer, error) {
	var (
		offers []domain.Offer
		err    error
	)
	switch caller.Role {
	case domain.RoleBuyer:
		offers, err = s.offers.ListOffersByBuyer(ctx, caller.UserID)
	case domain.RoleFarmer:
		offers, err = s.offers.ListOffersByFarmer(ctx, caller.UserID)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotParty)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}

	now := s.now()
	out := make([]domain.Offer, len(offers))
	for i, o := range offers {
		out[i] = project(o, now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// project presents an unswept overdue proposal as expired.
func project(o domain.Offer, now time.Time) domain.Offer {
	o.State = o.EffectiveState(now)
	return o
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "event_type", e.Type, "error", err)
	}
}
