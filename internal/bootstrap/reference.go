package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/geo"
	"github.com/abeleng/shemeta/internal/refdata"
)

// Reference holds the read-only data the engine scores against
type Reference struct {
	Catalog  *catalog.Catalog
	Dataset  *geo.Dataset
	Resolver *geo.Resolver
}

// LoadReferenceData loads the crop catalog, imports any reference files, builds
// the geo dataset and resolver, and finally imports the farmer roster so its
// parcels can be resolved against the fresh dataset.
func LoadReferenceData(ctx context.Context, cfg *config.Config, repos Repositories) (*Reference, error) {
	cat := catalog.Default()
	if cfg.CropCatalogPath != "" {
		loaded, err := catalog.Load(cfg.CropCatalogPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
		}
		cat = loaded
	}
	slog.Info(LogMsgCatalogLoaded, "crops", len(cat.Crops()), "path", cfg.CropCatalogPath)

	importer := refdata.NewImporter(repos.Geo, repos.Users, repos.Lands)
	if cfg.RefDataDir != "" {
		sum, err := importer.LoadReference(ctx, cfg.RefDataDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadReference, err)
		}
		slog.Info(LogMsgReferenceLoaded, "dir", cfg.RefDataDir, "geo_units", sum.GeoUnits, "features", sum.Features)
	}

	units, err := repos.Geo.ListGeoUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildDataset, err)
	}
	featured, err := repos.Geo.FeaturedGeoUnitIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildDataset, err)
	}
	dataset, err := geo.NewDataset(units, featured)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildDataset, err)
	}
	resolver, err := geo.NewResolver(dataset, geo.Options{CacheSize: cfg.ResolverCacheSize})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResolver, err)
	}
	slog.Info(LogMsgGeoDatasetReady, "geo_units", dataset.Len(), "featured", len(featured))

	if cfg.RefDataDir != "" {
		n, err := importer.LoadFarmers(ctx, cfg.RefDataDir, resolver.Resolve)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadFarmers, err)
		}
		slog.Info(LogMsgFarmerRosterLoaded, "created", n)
	}

	return &Reference{Catalog: cat, Dataset: dataset, Resolver: resolver}, nil
}
