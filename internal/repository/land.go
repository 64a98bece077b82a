package repository

import (
	"context"

	"github.com/abeleng/shemeta/internal/domain"
)

// Land defines the interface for land parcel persistence. Parcels are append-only;
// the newest parcel of a farmer is the current one.
type Land interface {
	CreateLand(ctx context.Context, land *domain.LandParcel) error
	GetLatestLand(ctx context.Context, farmerID string) (*domain.LandParcel, error)
}

// FarmerSource is the query-by-region view of farmer profiles. Returned profiles
// carry account metadata and the current parcel; suitability is left empty.
// RegionAny returns every farmer with a parcel.
type FarmerSource interface {
	FarmersByRegion(ctx context.Context, region domain.Region) ([]domain.FarmerProfile, error)
}
