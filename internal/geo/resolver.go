// Package geo resolves free-text parcel locations to reference geo units.
package geo

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abeleng/shemeta/internal/domain"
)

// Options configures a Resolver.
type Options struct {
	CacheSize    int
	SnapRadiusKm float64
}

// CacheStats reports resolver cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

type cacheEntry struct {
	unitID string
	err    error
}

// Resolver maps (location, region) to a geo unit id. Resolution depends only on
// its inputs and the immutable dataset, so results are cached indefinitely.
type Resolver struct {
	dataset      *Dataset
	snapRadiusKm float64
	cache        *lru.Cache[string, cacheEntry]
	hits         atomic.Uint64
	misses       atomic.Uint64
}

// NewResolver creates a resolver over ds.
func NewResolver(ds *Dataset, opts Options) (*Resolver, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.SnapRadiusKm <= 0 {
		opts.SnapRadiusKm = DefaultSnapRadiusKm
	}
	cache, err := lru.New[string, cacheEntry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateCache, err)
	}
	return &Resolver{
		dataset:      ds,
		snapRadiusKm: opts.SnapRadiusKm,
		cache:        cache,
	}, nil
}

// Resolve returns the geo unit id covering location inside region.
// It returns domain.ErrGeoUnitNotFound when no unit with feature data covers it;
// callers treat that as "no recommendations", not as a failure.
func (r *Resolver) Resolve(location string, region domain.Region) (string, error) {
	if _, ok := domain.ParseRegion(string(region)); !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRegion, region)
	}
	loc, err := ParseLocation(location)
	if err != nil {
		return "", err
	}

	key := string(region) + "|" + cacheKey(loc)
	if e, ok := r.cache.Get(key); ok {
		r.hits.Add(1)
		return e.unitID, e.err
	}
	r.misses.Add(1)

	unitID, err := r.resolve(loc, region)
	r.cache.Add(key, cacheEntry{unitID: unitID, err: err})
	return unitID, err
}

func (r *Resolver) resolve(loc Location, region domain.Region) (string, error) {
	units := r.dataset.Units(region)

	var found *domain.GeoUnit
	if loc.Point != nil {
		found = r.byPoint(units, *loc.Point)
	}
	if found == nil && loc.Name != "" {
		found = byName(units, loc.Name)
	}
	if found == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrGeoUnitNotFound, ErrMsgNoUnitCovers)
	}
	if !r.dataset.HasFeatures(found.ID) {
		return "", fmt.Errorf("%w: %s %s", domain.ErrGeoUnitNotFound, ErrMsgNoFeatureData, found.ID)
	}
	return found.ID, nil
}

// byPoint prefers a unit whose boundary contains p, then the nearest centroid
// within the snap radius. Ties go to the lowest id.
func (r *Resolver) byPoint(units []domain.GeoUnit, p domain.Point) *domain.GeoUnit {
	for i := range units {
		if containsPoint(units[i].Boundary, p) {
			return &units[i]
		}
	}

	var best *domain.GeoUnit
	bestKm := r.snapRadiusKm
	for i := range units {
		if d := haversineKm(units[i].Centroid, p); d <= bestKm {
			if best == nil || d < bestKm {
				best, bestKm = &units[i], d
			}
		}
	}
	return best
}

func byName(units []domain.GeoUnit, name string) *domain.GeoUnit {
	want := normalizeName(name)
	for i := range units {
		if normalizeName(units[i].Name) == want || normalizeName(units[i].ID) == want {
			return &units[i]
		}
	}
	return nil
}

func cacheKey(loc Location) string {
	if loc.Point != nil {
		return fmt.Sprintf("%s|%.6f,%.6f", normalizeName(loc.Name), loc.Point.Lat, loc.Point.Lon)
	}
	return normalizeName(loc.Name)
}

// Stats returns cache counters.
func (r *Resolver) Stats() CacheStats {
	return CacheStats{Hits: r.hits.Load(), Misses: r.misses.Load(), Size: r.cache.Len()}
}

// Dataset returns the reference dataset the resolver reads.
func (r *Resolver) Dataset() *Dataset {
	return r.dataset
}
