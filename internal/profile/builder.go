// Package profile assembles farmer profiles for matching from parcels,
// account metadata and geo-unit suitability scores.
package profile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/repository"
	"github.com/abeleng/shemeta/internal/suitability"
)

// DefaultConcurrency bounds parallel feature lookups.
const DefaultConcurrency = 8

const (
	ErrMsgLoadFarmers  = "failed to load farmers"
	ErrMsgLoadFeatures = "failed to load features for geo unit"
)

// Builder fills in crop suitability for farmer profiles. Suitability is always
// recomputed from the current feature records, never stored.
type Builder struct {
	farmers     repository.FarmerSource
	features    repository.FeatureSource
	ranker      *suitability.Ranker
	concurrency int
}

// NewBuilder creates a profile builder.
func NewBuilder(farmers repository.FarmerSource, features repository.FeatureSource, ranker *suitability.Ranker, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Builder{farmers: farmers, features: features, ranker: ranker, concurrency: concurrency}
}

// ForRegion returns the scored profiles of every farmer in region (RegionAny for all).
func (b *Builder) ForRegion(ctx context.Context, region domain.Region) ([]domain.FarmerProfile, error) {
	profiles, err := b.farmers.FarmersByRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadFarmers, err)
	}
	return b.Enrich(ctx, profiles)
}

// Enrich returns copies of profiles with Suitability set from each geo unit's ranking.
// Profiles without a resolved geo unit get an empty suitability map.
func (b *Builder) Enrich(ctx context.Context, profiles []domain.FarmerProfile) ([]domain.FarmerProfile, error) {
	var units []string
	seen := make(map[string]bool)
	for _, p := range profiles {
		if p.GeoUnitID != "" && !seen[p.GeoUnitID] {
			seen[p.GeoUnitID] = true
			units = append(units, p.GeoUnitID)
		}
	}

	scores := make([]map[domain.CropName]float64, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, unit := range units {
		g.Go(func() error {
			s, err := b.Suitability(gctx, unit)
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byUnit := make(map[string]map[domain.CropName]float64, len(units))
	for i, unit := range units {
		byUnit[unit] = scores[i]
	}

	out := make([]domain.FarmerProfile, len(profiles))
	for i, p := range profiles {
		p.Suitability = byUnit[p.GeoUnitID]
		if p.Suitability == nil {
			p.Suitability = map[domain.CropName]float64{}
		}
		out[i] = p
	}
	return out, nil
}

// Suitability returns the crop scores of one geo unit.
func (b *Builder) Suitability(ctx context.Context, geoUnitID string) (map[domain.CropName]float64, error) {
	ranked, err := b.Ranking(ctx, geoUnitID)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.CropName]float64, len(ranked))
	for _, sc := range ranked {
		out[sc.Crop] = sc.Score
	}
	return out, nil
}

// Ranking returns the ranked crops of one geo unit.
func (b *Builder) Ranking(ctx context.Context, geoUnitID string) ([]domain.ScoredCrop, error) {
	records, err := b.features.FeaturesByGeoUnit(ctx, geoUnitID)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgLoadFeatures, geoUnitID, err)
	}
	return b.ranker.Rank(records), nil
}

// FromLand builds the unscored profile of a farmer from their account and current parcel.
func FromLand(user domain.User, land domain.LandParcel) domain.FarmerProfile {
	p := domain.FarmerProfile{
		FarmerID:        user.ID,
		Name:            user.Name,
		Phone:           user.Phone,
		Region:          land.Region,
		Location:        land.Location,
		PlotSizeHa:      land.PlotSizeHa,
		Soil:            land.Soil,
		Irrigation:      land.Irrigation,
		ExperienceYears: user.ExperienceYears,
		Rating:          user.Rating,
		YieldEstimates:  land.YieldEstimates,
	}
	if land.GeoUnitID != nil {
		p.GeoUnitID = *land.GeoUnitID
	}
	return p
}
