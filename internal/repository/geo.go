package repository

import (
	"context"

	"github.com/abeleng/shemeta/internal/domain"
)

// FeatureSource is the query-by-geo-unit view of the agro-climatic reference data.
type FeatureSource interface {
	FeaturesByGeoUnit(ctx context.Context, geoUnitID string) ([]domain.FeatureRecord, error)
}

// GeoReference stores geo units and their feature records. It is read-only to
// the engine; imports go through the upsert methods.
type GeoReference interface {
	FeatureSource
	ListGeoUnits(ctx context.Context) ([]domain.GeoUnit, error)
	FeaturedGeoUnitIDs(ctx context.Context) ([]string, error)
	UpsertGeoUnits(ctx context.Context, units []domain.GeoUnit) error
	ReplaceFeatures(ctx context.Context, geoUnitID string, records []domain.FeatureRecord) error
}
