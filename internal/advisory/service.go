// Package advisory implements the farmer side of the marketplace: land
// registration, crop recommendations and buyer matching.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/matching"
	"github.com/abeleng/shemeta/internal/profile"
	"github.com/abeleng/shemeta/internal/repository"
)

// GeoResolver maps a free-form location in a region to a geo unit id.
type GeoResolver interface {
	Resolve(location string, region domain.Region) (string, error)
}

// OfferLister lists the offers visible to a caller.
type OfferLister interface {
	ListForUser(ctx context.Context, caller domain.Identity) ([]domain.Offer, error)
}

// Service defines the interface for farmer-side operations
type Service interface {
	RegisterLand(ctx context.Context, caller domain.Identity, in LandInput) (*domain.FarmerHome, error)
	Home(ctx context.Context, caller domain.Identity) (*domain.FarmerHome, error)
	Recommendations(ctx context.Context, geoUnitID string) ([]domain.ScoredCrop, error)
	MatchedBuyers(ctx context.Context, caller domain.Identity, crop string) ([]domain.BuyerMatch, error)
}

// LandInput is what a farmer submits about a parcel.
type LandInput struct {
	Region         string
	Location       string
	PlotSizeHa     float64
	Soil           string
	Irrigation     bool
	YieldEstimates map[string]float64
}

type service struct {
	lands        repository.Land
	users        repository.User
	requirements repository.Requirement
	resolver     GeoResolver
	profiles     *profile.Builder
	matcher      *matching.Matcher
	offers       OfferLister
	publisher    event.Publisher
	now          func() time.Time
}

// NewService creates a new advisory service
func NewService(
	lands repository.Land,
	users repository.User,
	requirements repository.Requirement,
	resolver GeoResolver,
	profiles *profile.Builder,
	matcher *matching.Matcher,
	offers OfferLister,
	publisher event.Publisher,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		lands:        lands,
		users:        users,
		requirements: requirements,
		resolver:     resolver,
		profiles:     profiles,
		matcher:      matcher,
		offers:       offers,
		publisher:    publisher,
		now:          func() time.Time { return now().UTC() },
	}
}

func requireFarmer(caller domain.Identity) error {
	if caller.IsZero() {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	if caller.Role != domain.RoleFarmer {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgFarmersOnly)
	}
	return nil
}

// RegisterLand stores a new current parcel for the caller and returns the
// refreshed farmer home. An unresolvable location is stored without a geo
// unit and yields no recommendations.
func (s *service) RegisterLand(ctx context.Context, caller domain.Identity, in LandInput) (*domain.FarmerHome, error) {
	if err := requireFarmer(caller); err != nil {
		return nil, err
	}

	land, err := parseLand(in)
	if err != nil {
		return nil, err
	}
	land.ID = uuid.NewString()
	land.FarmerID = caller.UserID
	land.CreatedAt = s.now()

	log := logger.FromContext(ctx)
	unitID, err := s.resolver.Resolve(land.Location, land.Region)
	switch {
	case err == nil:
		land.GeoUnitID = &unitID
	case errors.Is(err, domain.ErrGeoUnitNotFound):
		log.Info(LogMsgGeoUnitNotFound, "location", land.Location, "region", land.Region, "reason", err)
	default:
		return nil, fmt.Errorf("%s: %w", ErrMsgResolveLocation, err)
	}

	if err := s.lands.CreateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateLand, err)
	}

	home, err := s.home(ctx, caller, land)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, recs := range home.Recommendations {
		n += len(recs)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.NewLandRegisteredEvent(*land, n)); err != nil {
			log.Error(LogMsgPublishFailed, "land_id", land.ID, "error", err)
		}
	}
	log.Info(LogMsgLandRegistered, "land_id", land.ID, "farmer_id", land.FarmerID,
		"geo_unit_id", unitID, "recommendations", n)
	return home, nil
}

func parseLand(in LandInput) (*domain.LandParcel, error) {
	region, ok := domain.ParseRegion(in.Region)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRegion, in.Region)
	}
	soil, ok := domain.ParseSoil(in.Soil)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSoil, in.Soil)
	}

	var yields map[domain.CropName]float64
	if len(in.YieldEstimates) > 0 {
		yields = make(map[domain.CropName]float64, len(in.YieldEstimates))
		for name, y := range in.YieldEstimates {
			crop, ok := domain.ParseCrop(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCrop, name)
			}
			yields[crop] = y
		}
	}

	land := &domain.LandParcel{
		Region:         region,
		Location:       strings.TrimSpace(in.Location),
		PlotSizeHa:     in.PlotSizeHa,
		Soil:           soil,
		Irrigation:     in.Irrigation,
		YieldEstimates: yields,
	}
	if err := land.Validate(); err != nil {
		return nil, err
	}
	return land, nil
}

// Home returns the caller's current parcel, its recommendations and their offers.
func (s *service) Home(ctx context.Context, caller domain.Identity) (*domain.FarmerHome, error) {
	if err := requireFarmer(caller); err != nil {
		return nil, err
	}
	land, err := s.lands.GetLatestLand(ctx, caller.UserID)
	switch {
	case errors.Is(err, domain.ErrLandNotFound):
		land = nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLand, err)
	}
	return s.home(ctx, caller, land)
}

func (s *service) home(ctx context.Context, caller domain.Identity, land *domain.LandParcel) (*domain.FarmerHome, error) {
	home := &domain.FarmerHome{
		Land:            land,
		Recommendations: map[string][]domain.ScoredCrop{},
		Offers:          []domain.OfferView{},
	}

	if land != nil && land.GeoUnitID != nil {
		ranked, err := s.Recommendations(ctx, *land.GeoUnitID)
		if err != nil {
			return nil, err
		}
		nearby := make([]domain.ScoredCrop, 0, len(ranked))
		for _, sc := range ranked {
			if sc.Distance <= domain.MaxRecommendationDistance {
				nearby = append(nearby, sc)
			}
		}
		home.Recommendations[*land.GeoUnitID] = nearby
	}

	views, err := s.offerViews(ctx, caller)
	if err != nil {
		return nil, err
	}
	home.Offers = views
	return home, nil
}

// Recommendations returns the full crop ranking of a geo unit.
func (s *service) Recommendations(ctx context.Context, geoUnitID string) ([]domain.ScoredCrop, error) {
	ranked, err := s.profiles.Ranking(ctx, geoUnitID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRank, err)
	}
	return ranked, nil
}

func (s *service) offerViews(ctx context.Context, caller domain.Identity) ([]domain.OfferView, error) {
	offers, err := s.offers.ListForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListOffers, err)
	}
	if len(offers) == 0 {
		return []domain.OfferView{}, nil
	}

	ids := make([]string, 0, len(offers))
	seen := make(map[string]bool, len(offers))
	for _, o := range offers {
		if !seen[o.RequirementID] {
			seen[o.RequirementID] = true
			ids = append(ids, o.RequirementID)
		}
	}
	reqs, err := s.requirements.GetRequirementsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadRequirements, err)
	}
	byID := make(map[string]domain.CropRequirement, len(reqs))
	for _, r := range reqs {
		byID[r.ID] = r
	}

	views := make([]domain.OfferView, 0, len(offers))
	for _, o := range offers {
		req, ok := byID[o.RequirementID]
		if !ok {
			logger.FromContext(ctx).Warn(LogMsgMissingRequirement, "offer_id", o.ID, "requirement_id", o.RequirementID)
			continue
		}
		views = append(views, domain.OfferView{Offer: o, State: o.State, Requirement: req})
	}
	return views, nil
}

// MatchedBuyers ranks the open requirements for crop against the caller's current parcel.
func (s *service) MatchedBuyers(ctx context.Context, caller domain.Identity, crop string) ([]domain.BuyerMatch, error) {
	if err := requireFarmer(caller); err != nil {
		return nil, err
	}
	name, ok := domain.ParseCrop(crop)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCrop, crop)
	}

	land, err := s.lands.GetLatestLand(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLand, err)
	}
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadUser, err)
	}
	profiles, err := s.profiles.Enrich(ctx, []domain.FarmerProfile{profile.FromLand(*user, *land)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildProfile, err)
	}

	reqs, err := s.requirements.ListOpenRequirementsByCrop(ctx, name, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadRequirements, err)
	}
	matches, err := s.matcher.MatchBuyers(ctx, domain.CropCandidate{Farmer: profiles[0], Crop: name}, reqs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMatchBuyers, err)
	}
	if err := s.attachBuyers(ctx, matches); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug(LogMsgBuyersMatched, "farmer_id", caller.UserID, "crop", name, "matches", len(matches))
	return matches, nil
}

func (s *service) attachBuyers(ctx context.Context, matches []domain.BuyerMatch) error {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, m := range matches {
		if !seen[m.BuyerID] {
			seen[m.BuyerID] = true
			ids = append(ids, m.BuyerID)
		}
	}
	sort.Strings(ids)

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadUsers, err)
	}
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range matches {
		if u, ok := byID[matches[i].BuyerID]; ok {
			matches[i].BuyerName = u.Name
			matches[i].Phone = u.Phone
		}
	}
	return nil
}
