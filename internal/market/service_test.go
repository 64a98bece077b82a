package market

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/database/memory"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/testing/fixtures"
)

var (
	buyer  = domain.Identity{UserID: "B1", Role: domain.RoleBuyer}
	buyer2 = domain.Identity{UserID: "B2", Role: domain.RoleBuyer}
	admin  = domain.Identity{UserID: "A1", Role: domain.RoleAdmin}
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func newTestService(t *testing.T) (Service, *memory.Store, *recorder) {
	t.Helper()
	store := fixtures.Store(t)
	rec := &recorder{}
	return NewService(store, fixtures.Profiles(store), fixtures.Matcher(), rec, fixtures.Clock), store, rec
}

func validInput() RequirementInput {
	return RequirementInput{
		Crop:         " Maize ",
		QuantityTons: 10,
		PricePerKG:   32,
		HarvestDate:  fixtures.HarvestInWindow,
		Region:       "Oromia",
		QualityNotes: "  grade 1, moisture below 13%  ",
	}
}

func TestPostRequirement(t *testing.T) {
	svc, store, rec := newTestService(t)
	ctx := context.Background()

	req, err := svc.PostRequirement(ctx, buyer, validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "B1", req.BuyerID)
	assert.Equal(t, domain.CropMaize, req.Crop)
	assert.Equal(t, domain.RegionOromia, req.Region)
	assert.Equal(t, "grade 1, moisture below 13%", req.QualityNotes)
	assert.Equal(t, fixtures.Now, req.CreatedAt)

	stored, err := store.GetRequirement(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, *req, *stored)

	require.Len(t, rec.events, 1)
	assert.Equal(t, event.RequirementPosted, rec.events[0].Type)
}

func TestPostRequirement_Rejects(t *testing.T) {
	past := fixtures.Now.Add(-48 * time.Hour)

	tests := []struct {
		name    string
		caller  domain.Identity
		mutate  func(*RequirementInput)
		wantErr error
	}{
		{name: "anonymous", caller: domain.Identity{}, mutate: func(*RequirementInput) {}, wantErr: domain.ErrUnauthorized},
		{name: "farmer", caller: domain.Identity{UserID: "F1", Role: domain.RoleFarmer}, mutate: func(*RequirementInput) {}, wantErr: domain.ErrUnauthorized},
		{name: "unknown crop", caller: buyer, mutate: func(in *RequirementInput) { in.Crop = "quinoa" }, wantErr: domain.ErrInvalidCrop},
		{name: "unknown region", caller: buyer, mutate: func(in *RequirementInput) { in.Region = "atlantis" }, wantErr: domain.ErrInvalidRegion},
		{name: "zero quantity", caller: buyer, mutate: func(in *RequirementInput) { in.QuantityTons = 0 }, wantErr: domain.ErrInvalidQuantity},
		{name: "negative price", caller: buyer, mutate: func(in *RequirementInput) { in.PricePerKG = -1 }, wantErr: domain.ErrInvalidPrice},
		{name: "quantity beyond cap", caller: buyer, mutate: func(in *RequirementInput) { in.QuantityTons = 1e306 }, wantErr: domain.ErrInvalidQuantity},
		{name: "infinite quantity", caller: buyer, mutate: func(in *RequirementInput) { in.QuantityTons = math.Inf(1) }, wantErr: domain.ErrInvalidQuantity},
		{name: "price beyond cap", caller: buyer, mutate: func(in *RequirementInput) { in.PricePerKG = domain.MaxPricePerKG + 1 }, wantErr: domain.ErrInvalidPrice},
		{name: "NaN price", caller: buyer, mutate: func(in *RequirementInput) { in.PricePerKG = math.NaN() }, wantErr: domain.ErrInvalidPrice},
		{name: "missing harvest date", caller: buyer, mutate: func(in *RequirementInput) { in.HarvestDate = time.Time{} }, wantErr: domain.ErrValidation},
		{name: "harvest date passed", caller: buyer, mutate: func(in *RequirementInput) { in.HarvestDate = past }, wantErr: domain.ErrHarvestPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, rec := newTestService(t)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.PostRequirement(context.Background(), tt.caller, in)
			assert.ErrorIs(t, err, tt.wantErr)

			reqs, lerr := store.ListRequirementsByBuyer(context.Background(), "B1")
			require.NoError(t, lerr)
			assert.Empty(t, reqs, "nothing stored on rejection")
			assert.Empty(t, rec.events)
		})
	}
}

func TestPostRequirement_TodayIsStillOpen(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := validInput()
	in.HarvestDate = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.PostRequirement(context.Background(), buyer, in)
	assert.NoError(t, err)
}

func TestMatchedFarmers_RegionScenario(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	req := fixtures.Requirement("R1", domain.RegionOromia)
	require.NoError(t, store.CreateRequirement(ctx, &req))

	matches, err := svc.MatchedFarmers(ctx, buyer, "R1")
	require.NoError(t, err)
	require.Len(t, matches, 1, "F2 is outside oromia, F3 has no suitability data")

	m := matches[0]
	assert.Equal(t, "F1", m.FarmerID)
	assert.Equal(t, "Almaz", m.Name)
	assert.Equal(t, "+251911000011", m.Phone)
	assert.InDelta(t, 12.0, m.EstimatedYieldTons, 1e-9)
	assert.Greater(t, m.SuitabilityPct, 0.0)
	assert.LessOrEqual(t, m.SuitabilityPct, 100.0)
}

func TestMatchedFarmers_AnyRegion(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	req := fixtures.Requirement("R1", domain.RegionAny)
	require.NoError(t, store.CreateRequirement(ctx, &req))

	matches, err := svc.MatchedFarmers(ctx, buyer, "R1")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Equal scores; the larger estimated yield ranks first.
	assert.Equal(t, "F2", matches[0].FarmerID)
	assert.Equal(t, "F1", matches[1].FarmerID)

	again, err := svc.MatchedFarmers(ctx, buyer, "R1")
	require.NoError(t, err)
	assert.Equal(t, matches, again)
}

func TestMatchedFarmers_Access(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	req := fixtures.Requirement("R1", domain.RegionOromia)
	require.NoError(t, store.CreateRequirement(ctx, &req))

	_, err := svc.MatchedFarmers(ctx, buyer2, "R1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.MatchedFarmers(ctx, admin, "R1")
	assert.NoError(t, err)

	_, err = svc.MatchedFarmers(ctx, buyer, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatchedFarmers_ReflectsNewLand(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	req := fixtures.Requirement("R1", domain.RegionOromia)
	require.NoError(t, store.CreateRequirement(ctx, &req))

	// F2 moves to oromia; matches are recomputed, never cached.
	unit := fixtures.UnitAdama
	require.NoError(t, store.CreateLand(ctx, &domain.LandParcel{
		ID: "L2b", FarmerID: "F2", Region: domain.RegionOromia, Location: "Adama", PlotSizeHa: 5,
		Soil: domain.SoilVertisol, GeoUnitID: &unit, CreatedAt: fixtures.Now.Add(time.Hour),
	}))

	matches, err := svc.MatchedFarmers(ctx, buyer, "R1")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestListRequirements(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	older := fixtures.Requirement("R-old", domain.RegionOromia)
	newer := fixtures.Requirement("R-new", domain.RegionAny)
	newer.CreatedAt = fixtures.Now.Add(time.Minute)
	other := fixtures.Requirement("R-other", domain.RegionAny)
	other.BuyerID = "B2"
	for _, r := range []*domain.CropRequirement{&older, &newer, &other} {
		require.NoError(t, store.CreateRequirement(ctx, r))
	}

	reqs, err := svc.ListRequirements(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "R-new", reqs[0].ID)
	assert.Equal(t, "R-old", reqs[1].ID)

	_, err = svc.ListRequirements(ctx, domain.Identity{UserID: "F1", Role: domain.RoleFarmer})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
