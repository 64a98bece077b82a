// Package memory is an in-process implementation of every repository
// interface, used by tests, the devtool and STORAGE=memory deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/repository"
)

var (
	_ repository.User         = (*Store)(nil)
	_ repository.Land         = (*Store)(nil)
	_ repository.FarmerSource = (*Store)(nil)
	_ repository.Requirement  = (*Store)(nil)
	_ repository.Offer        = (*Store)(nil)
	_ repository.GeoReference = (*Store)(nil)
)

// Store holds all marketplace state in maps guarded by one lock.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	lands        map[string][]domain.LandParcel // farmer id -> parcels, oldest first
	requirements map[string]domain.CropRequirement
	offers       map[string]domain.Offer
	geoUnits     map[string]domain.GeoUnit
	features     map[string][]domain.FeatureRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		lands:        make(map[string][]domain.LandParcel),
		requirements: make(map[string]domain.CropRequirement),
		offers:       make(map[string]domain.Offer),
		geoUnits:     make(map[string]domain.GeoUnit),
		features:     make(map[string][]domain.FeatureRecord),
	}
}

// Users

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s already exists", domain.ErrValidation, user.ID)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return &u, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, userIDs []string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Land

func (s *Store) CreateLand(_ context.Context, land *domain.LandParcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lands[land.FarmerID] = append(s.lands[land.FarmerID], copyLand(*land))
	return nil
}

func (s *Store) GetLatestLand(_ context.Context, farmerID string) (*domain.LandParcel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parcels := s.lands[farmerID]
	if len(parcels) == 0 {
		return nil, fmt.Errorf("%w: farmer %s", domain.ErrLandNotFound, farmerID)
	}
	l := copyLand(parcels[len(parcels)-1])
	return &l, nil
}

// FarmersByRegion joins each farmer's latest parcel with their account.
func (s *Store) FarmersByRegion(_ context.Context, region domain.Region) ([]domain.FarmerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FarmerProfile, 0)
	for farmerID, parcels := range s.lands {
		if len(parcels) == 0 {
			continue
		}
		land := parcels[len(parcels)-1]
		if !region.Accepts(land.Region) {
			continue
		}
		u, ok := s.users[farmerID]
		if !ok {
			continue
		}
		p := domain.FarmerProfile{
			FarmerID:        u.ID,
			Name:            u.Name,
			Phone:           u.Phone,
			Region:          land.Region,
			Location:        land.Location,
			PlotSizeHa:      land.PlotSizeHa,
			Soil:            land.Soil,
			Irrigation:      land.Irrigation,
			ExperienceYears: u.ExperienceYears,
			Rating:          u.Rating,
			YieldEstimates:  copyYields(land.YieldEstimates),
		}
		if land.GeoUnitID != nil {
			p.GeoUnitID = *land.GeoUnitID
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FarmerID < out[j].FarmerID })
	return out, nil
}

// Requirements

func (s *Store) CreateRequirement(_ context.Context, req *domain.CropRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[req.ID] = *req
	return nil
}

func (s *Store) GetRequirement(_ context.Context, id string) (*domain.CropRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requirements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRequirementNotFound, id)
	}
	return &r, nil
}

func (s *Store) GetRequirementsByIDs(_ context.Context, ids []string) ([]domain.CropRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CropRequirement, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.requirements[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListRequirementsByBuyer(_ context.Context, buyerID string) ([]domain.CropRequirement, error) {
	return s.filterRequirements(func(r domain.CropRequirement) bool { return r.BuyerID == buyerID }), nil
}

func (s *Store) ListOpenRequirementsByCrop(_ context.Context, crop domain.CropName, asOf time.Time) ([]domain.CropRequirement, error) {
	return s.filterRequirements(func(r domain.CropRequirement) bool {
		return r.Crop == crop && r.IsOpen(asOf)
	}), nil
}

func (s *Store) filterRequirements(keep func(domain.CropRequirement) bool) []domain.CropRequirement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CropRequirement, 0)
	for _, r := range s.requirements {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Offers

// CreateOffer inserts offer unless a proposed offer already holds its triple.
func (s *Store) CreateOffer(_ context.Context, offer *domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offer.Key()
	for _, o := range s.offers {
		if o.State == domain.OfferStateProposed && o.Key() == key {
			return fmt.Errorf("%w: offer %s", domain.ErrDuplicateOffer, o.ID)
		}
	}
	s.offers[offer.ID] = copyOffer(*offer)
	return nil
}

func (s *Store) GetOffer(_ context.Context, id string) (*domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, id)
	}
	o = copyOffer(o)
	return &o, nil
}

func (s *Store) FindProposedOffer(_ context.Context, key domain.OfferKey) (*domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.offers {
		if o.State == domain.OfferStateProposed && o.Key() == key {
			o = copyOffer(o)
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, key)
}

// UpdateOfferStateIfMatches is the compare-and-set on (state=proposed, version).
func (s *Store) UpdateOfferStateIfMatches(_ context.Context, id string, expectedVersion int, state domain.OfferState, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok || o.State != domain.OfferStateProposed || o.Version != expectedVersion {
		return 0, nil
	}
	o.State = state
	o.Version++
	o.UpdatedAt = at
	if state != domain.OfferStateExpired {
		t := at
		o.RespondedAt = &t
	}
	s.offers[id] = o
	return 1, nil
}

func (s *Store) ListOffersByBuyer(_ context.Context, buyerID string) ([]domain.Offer, error) {
	return s.filterOffers(func(o domain.Offer) bool { return o.BuyerID == buyerID }, 0), nil
}

func (s *Store) ListOffersByFarmer(_ context.Context, farmerID string) ([]domain.Offer, error) {
	return s.filterOffers(func(o domain.Offer) bool { return o.FarmerID == farmerID }, 0), nil
}

func (s *Store) ListDueOffers(_ context.Context, asOf time.Time, limit int) ([]domain.Offer, error) {
	return s.filterOffers(func(o domain.Offer) bool { return o.IsDue(asOf) }, limit), nil
}

func (s *Store) filterOffers(keep func(domain.Offer) bool, limit int) []domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Offer, 0)
	for _, o := range s.offers {
		if keep(o) {
			out = append(out, copyOffer(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Geo reference data

func (s *Store) FeaturesByGeoUnit(_ context.Context, geoUnitID string) ([]domain.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.features[geoUnitID]
	out := make([]domain.FeatureRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *Store) ListGeoUnits(_ context.Context) ([]domain.GeoUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GeoUnit, 0, len(s.geoUnits))
	for _, u := range s.geoUnits {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FeaturedGeoUnitIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.features))
	for id, recs := range s.features {
		if len(recs) > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) UpsertGeoUnits(_ context.Context, units []domain.GeoUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range units {
		s.geoUnits[u.ID] = u
	}
	return nil
}

func (s *Store) ReplaceFeatures(_ context.Context, geoUnitID string, records []domain.FeatureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]domain.FeatureRecord, len(records))
	copy(recs, records)
	s.features[geoUnitID] = recs
	return nil
}

func copyOffer(o domain.Offer) domain.Offer {
	if o.RespondedAt != nil {
		t := *o.RespondedAt
		o.RespondedAt = &t
	}
	return o
}

func copyLand(l domain.LandParcel) domain.LandParcel {
	if l.GeoUnitID != nil {
		id := *l.GeoUnitID
		l.GeoUnitID = &id
	}
	l.YieldEstimates = copyYields(l.YieldEstimates)
	return l
}

func copyYields(m map[domain.CropName]float64) map[domain.CropName]float64 {
	if m == nil {
		return nil
	}
	out := make(map[domain.CropName]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
