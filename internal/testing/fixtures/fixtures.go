// Package fixtures seeds an in-memory marketplace shared by service tests.
package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/database/memory"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/matching"
	"github.com/abeleng/shemeta/internal/profile"
	"github.com/abeleng/shemeta/internal/suitability"
)

// Now is the fixed clock of seeded scenarios.
var Now = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

// HarvestInWindow falls inside the maize and teff catalog harvest windows.
var HarvestInWindow = time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)

// Geo unit ids of the seeded reference data.
const (
	UnitAdama  = "U1"
	UnitBahir  = "U2"
	UnitNoData = "U3"
)

// Clock returns Now.
func Clock() time.Time { return Now }

// UnitFeatures returns the feature records of UnitAdama.
func UnitFeatures() []domain.FeatureRecord {
	return []domain.FeatureRecord{
		{GeoUnitID: UnitAdama, Crop: domain.CropTeff, NDVIPeak: 0.81, Distance: 1.2, RainfallMM: 800, TemperatureC: 20, Quality: domain.QualityGood},
		{GeoUnitID: UnitAdama, Crop: domain.CropMaize, NDVIPeak: 0.74, Distance: 0.5, RainfallMM: 900, TemperatureC: 24, Quality: domain.QualityGood},
		{GeoUnitID: UnitAdama, Crop: domain.CropCoffee, NDVIPeak: 0.60, Distance: 25, RainfallMM: 1500, TemperatureC: 21, Quality: domain.QualityPartial},
	}
}

// GeoUnits returns the seeded reference units. UnitNoData has no feature records.
func GeoUnits() []domain.GeoUnit {
	return []domain.GeoUnit{
		{
			ID: UnitAdama, Name: "Adama", Region: domain.RegionOromia,
			Centroid: domain.Point{Lat: 8.54, Lon: 39.27},
			Boundary: []domain.Point{{Lat: 8.4, Lon: 39.1}, {Lat: 8.4, Lon: 39.4}, {Lat: 8.7, Lon: 39.4}, {Lat: 8.7, Lon: 39.1}},
		},
		{ID: UnitBahir, Name: "Bahir Dar", Region: domain.RegionAmhara, Centroid: domain.Point{Lat: 11.59, Lon: 37.39}},
		{ID: UnitNoData, Name: "Dukem", Region: domain.RegionOromia, Centroid: domain.Point{Lat: 8.80, Lon: 38.90}},
	}
}

// Store returns a memory store holding:
//
//	B1, B2       buyers
//	F1           oromia, Adama, 3 ha, maize 4 t/ha (12 t)
//	F2           amhara, Bahir Dar (features copied from Adama), 5 ha, maize 4 t/ha
//	F3           oromia, no geo unit
//	F4           registered farmer without land
func Store(t testing.TB) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	users := []domain.User{
		{ID: "B1", Name: "Abebe Exports", Phone: "+251911000001", Role: domain.RoleBuyer, CreatedAt: Now},
		{ID: "B2", Name: "Sidama Coffee Union", Phone: "+251911000002", Role: domain.RoleBuyer, CreatedAt: Now},
		{ID: "F1", Name: "Almaz", Phone: "+251911000011", Role: domain.RoleFarmer, Region: domain.RegionOromia, ExperienceYears: 12, Rating: 4.5, CreatedAt: Now},
		{ID: "F2", Name: "Bekele", Phone: "+251911000012", Role: domain.RoleFarmer, Region: domain.RegionAmhara, ExperienceYears: 4, Rating: 3.9, CreatedAt: Now},
		{ID: "F3", Name: "Chaltu", Role: domain.RoleFarmer, Region: domain.RegionOromia, CreatedAt: Now},
		{ID: "F4", Name: "Dawit", Role: domain.RoleFarmer, Region: domain.RegionTigray, CreatedAt: Now},
	}
	for i := range users {
		must(s.CreateUser(ctx, &users[i]))
	}

	must(s.UpsertGeoUnits(ctx, GeoUnits()))
	must(s.ReplaceFeatures(ctx, UnitAdama, UnitFeatures()))
	bahir := UnitFeatures()
	for i := range bahir {
		bahir[i].GeoUnitID = UnitBahir
	}
	must(s.ReplaceFeatures(ctx, UnitBahir, bahir))

	adama, bahirID := UnitAdama, UnitBahir
	lands := []domain.LandParcel{
		{ID: "L1", FarmerID: "F1", Region: domain.RegionOromia, Location: "Adama (8.55, 39.27)", PlotSizeHa: 3,
			Soil: domain.SoilVertisol, GeoUnitID: &adama, YieldEstimates: map[domain.CropName]float64{domain.CropMaize: 4}, CreatedAt: Now},
		{ID: "L2", FarmerID: "F2", Region: domain.RegionAmhara, Location: "Bahir Dar", PlotSizeHa: 5,
			Soil: domain.SoilNitisol, Irrigation: true, GeoUnitID: &bahirID, YieldEstimates: map[domain.CropName]float64{domain.CropMaize: 4}, CreatedAt: Now},
		{ID: "L3", FarmerID: "F3", Region: domain.RegionOromia, Location: "unknown hamlet", PlotSizeHa: 1,
			Soil: domain.SoilLuvisol, CreatedAt: Now},
	}
	for i := range lands {
		must(s.CreateLand(ctx, &lands[i]))
	}
	return s
}

// Requirement returns an open maize requirement of B1.
func Requirement(id string, region domain.Region) domain.CropRequirement {
	return domain.CropRequirement{
		ID:           id,
		BuyerID:      "B1",
		Crop:         domain.CropMaize,
		QuantityTons: 10,
		PricePerKG:   32,
		HarvestDate:  HarvestInWindow,
		Region:       region,
		CreatedAt:    Now,
	}
}

// Profiles returns a profile builder over s.
func Profiles(s *memory.Store) *profile.Builder {
	return profile.NewBuilder(s, s, suitability.NewRanker(catalog.Default()), 2)
}

// Matcher returns a matcher with default options.
func Matcher() *matching.Matcher {
	return matching.NewMatcher(catalog.Default(), matching.DefaultOptions())
}
