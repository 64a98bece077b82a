// Package aggregation computes dashboard rollups on every read from the
// current requirements, offers and matches. Nothing here is stored.
package aggregation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/repository"
)

// RequirementMatcher recomputes the matched farmers of a requirement.
type RequirementMatcher interface {
	MatchRequirement(ctx context.Context, req domain.CropRequirement) ([]domain.Match, error)
}

// Service defines the interface for dashboard rollups
type Service interface {
	ActiveOfferCount(ctx context.Context, buyerID string) (int, error)
	TotalMatchedFarmers(ctx context.Context, buyerID string) (int, error)
	PotentialEarnings(ctx context.Context, farmerID string) (float64, error)
	RequirementSummaries(ctx context.Context, buyerID string) ([]domain.RequirementSummary, error)
	BuyerDashboard(ctx context.Context, buyerID string) (*domain.BuyerDashboard, error)
	FarmerDashboard(ctx context.Context, farmerID string) (*domain.FarmerDashboard, error)
}

type service struct {
	requirements repository.Requirement
	offers       repository.Offer
	matcher      RequirementMatcher
	concurrency  int
	now          func() time.Time
}

// NewService creates a new aggregation service
func NewService(requirements repository.Requirement, offers repository.Offer, matcher RequirementMatcher, concurrency int, now func() time.Time) Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		requirements: requirements,
		offers:       offers,
		matcher:      matcher,
		concurrency:  concurrency,
		now:          func() time.Time { return now().UTC() },
	}
}

// ActiveOfferCount counts the buyer's offers still awaiting a response.
func (s *service) ActiveOfferCount(ctx context.Context, buyerID string) (int, error) {
	offers, err := s.offers.ListOffersByBuyer(ctx, buyerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}
	return countActive(offers, s.now()), nil
}

// TotalMatchedFarmers counts distinct farmers matched by any of the buyer's open requirements.
func (s *service) TotalMatchedFarmers(ctx context.Context, buyerID string) (int, error) {
	reqs, err := s.requirements.ListRequirementsByBuyer(ctx, buyerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListRequirements, err)
	}
	matched, err := s.matchAll(ctx, reqs)
	if err != nil {
		return 0, err
	}
	return distinctFarmers(matched), nil
}

// PotentialEarnings sums price per kg times quantity over the farmer's
// accepted offers and active proposals.
func (s *service) PotentialEarnings(ctx context.Context, farmerID string) (float64, error) {
	offers, err := s.offers.ListOffersByFarmer(ctx, farmerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}
	return potentialEarnings(offers, s.now()), nil
}

// RequirementSummaries lists the buyer's requirements with their current match
// and active offer counts. Closed requirements report zero matches.
func (s *service) RequirementSummaries(ctx context.Context, buyerID string) ([]domain.RequirementSummary, error) {
	reqs, offers, err := s.buyerData(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	matched, err := s.matchAll(ctx, reqs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make(map[string]int)
	for _, o := range offers {
		if o.IsActive(now) {
			active[o.RequirementID]++
		}
	}

	out := make([]domain.RequirementSummary, len(reqs))
	for i, r := range reqs {
		out[i] = domain.RequirementSummary{
			Requirement:    r,
			MatchedFarmers: len(matched[i]),
			ActiveOffers:   active[r.ID],
		}
	}
	return out, nil
}

// BuyerDashboard computes the buyer rollup.
func (s *service) BuyerDashboard(ctx context.Context, buyerID string) (*domain.BuyerDashboard, error) {
	reqs, offers, err := s.buyerData(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	matched, err := s.matchAll(ctx, reqs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	open := 0
	for _, r := range reqs {
		if r.IsOpen(now) {
			open++
		}
	}

	d := &domain.BuyerDashboard{
		BuyerID:             buyerID,
		OpenRequirements:    open,
		TotalFarmersMatched: distinctFarmers(matched),
		ActiveOffers:        countActive(offers, now),
		TotalPurchases:      countState(offers, now, domain.OfferStateAccepted),
	}
	logger.FromContext(ctx).Debug(LogMsgBuyerDashboard, "buyer_id", buyerID,
		"open_requirements", d.OpenRequirements, "active_offers", d.ActiveOffers)
	return d, nil
}

// FarmerDashboard computes the farmer rollup.
func (s *service) FarmerDashboard(ctx context.Context, farmerID string) (*domain.FarmerDashboard, error) {
	offers, err := s.offers.ListOffersByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}

	now := s.now()
	d := &domain.FarmerDashboard{
		FarmerID:          farmerID,
		ActiveOffers:      countActive(offers, now),
		AcceptedOffers:    countState(offers, now, domain.OfferStateAccepted),
		PotentialEarnings: potentialEarnings(offers, now),
		Currency:          domain.Currency,
	}
	logger.FromContext(ctx).Debug(LogMsgFarmerDashboard, "farmer_id", farmerID,
		"active_offers", d.ActiveOffers, "potential_earnings", d.PotentialEarnings)
	return d, nil
}

func (s *service) buyerData(ctx context.Context, buyerID string) ([]domain.CropRequirement, []domain.Offer, error) {
	var (
		reqs   []domain.CropRequirement
		offers []domain.Offer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if reqs, err = s.requirements.ListRequirementsByBuyer(gctx, buyerID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgListRequirements, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if offers, err = s.offers.ListOffersByBuyer(gctx, buyerID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgListOffers, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return reqs, offers, nil
}

// matchAll returns the matched farmer ids of each open requirement, indexed like reqs.
func (s *service) matchAll(ctx context.Context, reqs []domain.CropRequirement) ([][]string, error) {
	now := s.now()
	out := make([][]string, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, r := range reqs {
		if !r.IsOpen(now) {
			continue
		}
		g.Go(func() error {
			matches, err := s.matcher.MatchRequirement(gctx, r)
			if err != nil {
				return fmt.Errorf("%s %s: %w", ErrMsgMatchRequirement, r.ID, err)
			}
			ids := make([]string, len(matches))
			for j, m := range matches {
				ids[j] = m.FarmerID
			}
			out[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func distinctFarmers(matched [][]string) int {
	seen := make(map[string]struct{})
	for _, ids := range matched {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

func countActive(offers []domain.Offer, now time.Time) int {
	n := 0
	for _, o := range offers {
		if o.IsActive(now) {
			n++
		}
	}
	return n
}

func countState(offers []domain.Offer, now time.Time, state domain.OfferState) int {
	n := 0
	for _, o := range offers {
		if o.EffectiveState(now) == state {
			n++
		}
	}
	return n
}

func potentialEarnings(offers []domain.Offer, now time.Time) float64 {
	total := 0.0
	for _, o := range offers {
		switch o.EffectiveState(now) {
		case domain.OfferStateAccepted, domain.OfferStateProposed:
			total += o.ValueETB()
		}
	}
	return total
}
