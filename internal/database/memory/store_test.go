package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/domain"
)

var t0 = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func proposed(id string, key domain.OfferKey, created time.Time) *domain.Offer {
	return &domain.Offer{
		ID: id, BuyerID: key.BuyerID, FarmerID: key.FarmerID, RequirementID: key.RequirementID,
		InitiatorID: key.BuyerID, State: domain.OfferStateProposed, Version: 1,
		CreatedAt: created, ExpiresAt: created.Add(time.Hour), UpdatedAt: created,
	}
}

func TestCreateOffer_RejectsSecondActiveOffer(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	key := domain.OfferKey{BuyerID: "b1", FarmerID: "f1", RequirementID: "r1"}

	require.NoError(t, s.CreateOffer(ctx, proposed("o1", key, t0)))
	err := s.CreateOffer(ctx, proposed("o2", key, t0))
	assert.ErrorIs(t, err, domain.ErrDuplicateOffer)

	// A terminal offer frees the triple.
	rows, err := s.UpdateOfferStateIfMatches(ctx, "o1", 1, domain.OfferStateDeclined, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, s.CreateOffer(ctx, proposed("o3", key, t0)))
}

func TestCreateOffer_ConcurrentProposalsAdmitOne(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	key := domain.OfferKey{BuyerID: "b1", FarmerID: "f1", RequirementID: "r1"}

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CreateOffer(ctx, proposed(fmt.Sprintf("o%d", i), key, t0)) == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok.Load())
}

func TestUpdateOfferStateIfMatches(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	key := domain.OfferKey{BuyerID: "b1", FarmerID: "f1", RequirementID: "r1"}
	require.NoError(t, s.CreateOffer(ctx, proposed("o1", key, t0)))

	rows, err := s.UpdateOfferStateIfMatches(ctx, "o1", 2, domain.OfferStateAccepted, t0)
	require.NoError(t, err)
	assert.Zero(t, rows, "stale version")

	rows, err = s.UpdateOfferStateIfMatches(ctx, "o1", 1, domain.OfferStateAccepted, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = s.UpdateOfferStateIfMatches(ctx, "o1", 2, domain.OfferStateDeclined, t0)
	require.NoError(t, err)
	assert.Zero(t, rows, "terminal offers never change")

	o, err := s.GetOffer(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OfferStateAccepted, o.State)
	assert.Equal(t, 2, o.Version)
	require.NotNil(t, o.RespondedAt)

	rows, err = s.UpdateOfferStateIfMatches(ctx, "missing", 1, domain.OfferStateAccepted, t0)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestListDueOffers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i, created := range []time.Time{t0, t0.Add(time.Minute), t0.Add(3 * time.Hour)} {
		key := domain.OfferKey{BuyerID: "b1", FarmerID: fmt.Sprintf("f%d", i), RequirementID: "r1"}
		require.NoError(t, s.CreateOffer(ctx, proposed(fmt.Sprintf("o%d", i), key, created)))
	}

	due, err := s.ListDueOffers(ctx, t0.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "o0", due[0].ID)

	due, err = s.ListDueOffers(ctx, t0.Add(2*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetOffer(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
	_, err = s.GetRequirement(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrRequirementNotFound)
	_, err = s.GetUserByID(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.GetLatestLand(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrLandNotFound)
	_, err = s.FindProposedOffer(ctx, domain.OfferKey{BuyerID: "b"})
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func TestFarmersByRegion_LatestParcelWins(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	unit := "U1"

	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "f1", Name: "Abebe", Role: domain.RoleFarmer, Rating: 4}))
	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "f2", Name: "Almaz", Role: domain.RoleFarmer}))
	require.NoError(t, s.CreateLand(ctx, &domain.LandParcel{ID: "l1", FarmerID: "f1", Region: domain.RegionAmhara, PlotSizeHa: 1}))
	require.NoError(t, s.CreateLand(ctx, &domain.LandParcel{ID: "l2", FarmerID: "f1", Region: domain.RegionOromia, PlotSizeHa: 3, GeoUnitID: &unit}))
	require.NoError(t, s.CreateLand(ctx, &domain.LandParcel{ID: "l3", FarmerID: "f2", Region: domain.RegionAmhara, PlotSizeHa: 2}))

	oromia, err := s.FarmersByRegion(ctx, domain.RegionOromia)
	require.NoError(t, err)
	require.Len(t, oromia, 1)
	assert.Equal(t, "f1", oromia[0].FarmerID)
	assert.Equal(t, 3.0, oromia[0].PlotSizeHa)
	assert.Equal(t, "U1", oromia[0].GeoUnitID)

	all, err := s.FarmersByRegion(ctx, domain.RegionAny)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	latest, err := s.GetLatestLand(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "l2", latest.ID)
}

func TestListOpenRequirementsByCrop(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreateRequirement(ctx, &domain.CropRequirement{ID: "r1", Crop: domain.CropMaize, HarvestDate: t0.AddDate(0, 1, 0)}))
	require.NoError(t, s.CreateRequirement(ctx, &domain.CropRequirement{ID: "r2", Crop: domain.CropMaize, HarvestDate: t0.AddDate(0, -1, 0)}))
	require.NoError(t, s.CreateRequirement(ctx, &domain.CropRequirement{ID: "r3", Crop: domain.CropTeff, HarvestDate: t0.AddDate(0, 1, 0)}))

	open, err := s.ListOpenRequirementsByCrop(ctx, domain.CropMaize, t0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "r1", open[0].ID)
}

func TestFeatures(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.UpsertGeoUnits(ctx, []domain.GeoUnit{{ID: "U2"}, {ID: "U1"}}))
	require.NoError(t, s.ReplaceFeatures(ctx, "U1", []domain.FeatureRecord{{GeoUnitID: "U1", Crop: domain.CropTeff}}))

	units, err := s.ListGeoUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, "U1", units[0].ID)

	ids, err := s.FeaturedGeoUnitIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, ids)

	recs, err := s.FeaturesByGeoUnit(ctx, "U2")
	require.NoError(t, err)
	assert.Empty(t, recs)
}
