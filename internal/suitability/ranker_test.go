package suitability

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/domain"
)

func newTestRanker() *Ranker {
	return NewRanker(catalog.Default())
}

// atOptimum builds a good-quality record whose rainfall and temperature sit at
// the crop's catalogued optimum.
func atOptimum(t *testing.T, crop domain.CropName, ndvi, distance float64) domain.FeatureRecord {
	t.Helper()
	p, ok := catalog.Default().Lookup(crop)
	require.True(t, ok)
	return domain.FeatureRecord{
		GeoUnitID:    "U1",
		Crop:         crop,
		Distance:     distance,
		RainfallMM:   p.Rainfall.Opt,
		TemperatureC: p.Temperature.Opt,
		NDVIPeak:     ndvi,
		Quality:      domain.QualityGood,
	}
}

func crops(scored []domain.ScoredCrop) []domain.CropName {
	out := make([]domain.CropName, len(scored))
	for i, s := range scored {
		out[i] = s.Crop
	}
	return out
}

func TestRank_TeffOutranksMaize(t *testing.T) {
	r := newTestRanker()
	records := []domain.FeatureRecord{
		atOptimum(t, domain.CropMaize, 0.74, 0.5),
		atOptimum(t, domain.CropTeff, 0.81, 1.2),
	}

	got := r.Rank(records)

	require.Len(t, got, 2)
	assert.Equal(t, []domain.CropName{domain.CropTeff, domain.CropMaize}, crops(got))
	assert.Greater(t, got[0].Score, got[1].Score)
	assert.Equal(t, "Teff", got[0].DisplayName)
	assert.Equal(t, domain.FormulaVersion, got[0].FormulaVersion)
}

func TestRank_Empty(t *testing.T) {
	r := newTestRanker()
	assert.Empty(t, r.Rank(nil))
	assert.NotNil(t, r.Rank([]domain.FeatureRecord{}))
}

func TestRank_PoorAlwaysBelowGood(t *testing.T) {
	r := newTestRanker()

	weakGood := domain.FeatureRecord{Crop: "barley", Distance: 1e6, RainfallMM: 0, NDVIPeak: -1, Quality: domain.QualityGood}
	strongPoor := atOptimum(t, domain.CropTeff, 1.0, 0)
	strongPoor.Quality = domain.QualityPoor

	got := r.Rank([]domain.FeatureRecord{strongPoor, weakGood})

	require.Len(t, got, 2)
	assert.Equal(t, domain.CropName("barley"), got[0].Crop)
	assert.LessOrEqual(t, got[1].Score, PoorCeiling)
	assert.GreaterOrEqual(t, got[0].Score, QualityFloor)
}

func TestScore_QualityOrdering(t *testing.T) {
	r := newTestRanker()
	rec := atOptimum(t, domain.CropMaize, 0.6, 2)

	good := r.Score(rec)
	rec.Quality = domain.QualityPartial
	partial := r.Score(rec)
	rec.Quality = domain.QualityPoor
	poor := r.Score(rec)

	assert.Greater(t, good, partial)
	assert.Greater(t, partial, poor)
}

func TestScore_Monotonic(t *testing.T) {
	r := newTestRanker()
	base := atOptimum(t, domain.CropMaize, 0.5, 3)
	p, _ := catalog.Default().Lookup(domain.CropMaize)

	t.Run("higher ndvi scores higher", func(t *testing.T) {
		hi := base
		hi.NDVIPeak = 0.7
		assert.Greater(t, r.Score(hi), r.Score(base))
	})

	t.Run("lower distance scores higher", func(t *testing.T) {
		near := base
		near.Distance = 1
		assert.Greater(t, r.Score(near), r.Score(base))
	})

	t.Run("more rain scores higher up to the optimum", func(t *testing.T) {
		dry, wetter := base, base
		dry.RainfallMM = p.Rainfall.Min - 100
		wetter.RainfallMM = p.Rainfall.Min + 100
		assert.Greater(t, r.Score(wetter), r.Score(dry))
		assert.Greater(t, r.Score(base), r.Score(wetter))
	})

	t.Run("rain past the optimum scores lower", func(t *testing.T) {
		flooded := base
		flooded.RainfallMM = p.Rainfall.Max + 200
		assert.Greater(t, r.Score(base), r.Score(flooded))
	})
}

func TestRank_TieBreaks(t *testing.T) {
	r := newTestRanker()

	t.Run("crop name ascending when all signals tie", func(t *testing.T) {
		got := r.Rank([]domain.FeatureRecord{
			{Crop: "millet", Distance: 2, RainfallMM: 500, NDVIPeak: 0.5, Quality: domain.QualityGood},
			{Crop: "barley", Distance: 2, RainfallMM: 500, NDVIPeak: 0.5, Quality: domain.QualityGood},
		})
		assert.Equal(t, []domain.CropName{"barley", "millet"}, crops(got))
		assert.Equal(t, got[0].Score, got[1].Score)
	})

	t.Run("ndvi descending when scores tie", func(t *testing.T) {
		// Negative NDVI clamps to zero in the score, so only the tie-break sees it.
		got := r.Rank([]domain.FeatureRecord{
			{Crop: "barley", Distance: 2, RainfallMM: 500, NDVIPeak: -0.5, Quality: domain.QualityGood},
			{Crop: "millet", Distance: 2, RainfallMM: 500, NDVIPeak: -0.2, Quality: domain.QualityGood},
		})
		assert.Equal(t, []domain.CropName{"millet", "barley"}, crops(got))
		assert.Equal(t, got[0].Score, got[1].Score)
	})
}

func TestRankDetailed_MalformedRecordsExcludedIndividually(t *testing.T) {
	r := newTestRanker()
	records := []domain.FeatureRecord{
		atOptimum(t, domain.CropTeff, 0.8, 1),
		{Crop: "", NDVIPeak: 0.5, Quality: domain.QualityGood},
		{Crop: domain.CropRice, NDVIPeak: math.NaN(), Quality: domain.QualityGood},
		{Crop: domain.CropBean, NDVIPeak: 1.5, Quality: domain.QualityGood},
		{Crop: domain.CropOnion, NDVIPeak: 0.5, Distance: -1, Quality: domain.QualityGood},
		{Crop: domain.CropMango, NDVIPeak: 0.5, Quality: "excellent"},
		{Crop: domain.CropCoffee, NDVIPeak: 0.5, Quality: domain.QualityGood},
		{Crop: domain.CropCoffee, NDVIPeak: 0.6, Quality: domain.QualityGood},
		atOptimum(t, domain.CropMaize, 0.7, 1),
	}

	res := r.RankDetailed(records)

	assert.Equal(t, []domain.CropName{domain.CropTeff, domain.CropMaize}, crops(res.Crops))
	reasons := map[domain.CropName]string{}
	for _, rej := range res.Rejected {
		reasons[rej.Crop] = rej.Reason
	}
	assert.Equal(t, ReasonEmptyCrop, reasons[""])
	assert.Equal(t, ReasonNonFinite, reasons[domain.CropRice])
	assert.Equal(t, ReasonNDVIOutOfRange, reasons[domain.CropBean])
	assert.Equal(t, ReasonNegativeValue, reasons[domain.CropOnion])
	assert.Equal(t, ReasonUnknownQuality, reasons[domain.CropMango])
	assert.Equal(t, ReasonDuplicateCrop, reasons[domain.CropCoffee])
}

func TestRank_SortedAndDeterministic(t *testing.T) {
	r := newTestRanker()
	rng := rand.New(rand.NewSource(42))
	qualities := []domain.Quality{domain.QualityGood, domain.QualityPartial, domain.QualityPoor}

	all := domain.Crops()
	records := make([]domain.FeatureRecord, 0, len(all))
	for _, c := range all {
		records = append(records, domain.FeatureRecord{
			Crop:         c,
			Distance:     math.Round(rng.Float64()*200) / 10,
			RainfallMM:   math.Round(rng.Float64() * 2000),
			TemperatureC: math.Round(rng.Float64() * 35),
			NDVIPeak:     math.Round(rng.Float64()*100) / 100,
			Quality:      qualities[rng.Intn(len(qualities))],
		})
	}

	first := r.Rank(records)
	require.Len(t, first, len(records))
	for i := 1; i < len(first); i++ {
		assert.True(t, less(first[i-1], first[i]), "out of order at %d", i)
		assert.GreaterOrEqual(t, first[i-1].Score, first[i].Score)
	}

	shuffled := make([]domain.FeatureRecord, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.Equal(t, first, r.Rank(records))
	assert.Equal(t, first, r.Rank(shuffled))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	r := newTestRanker()
	records := []domain.FeatureRecord{
		atOptimum(t, domain.CropMaize, 0.74, 0.5),
		atOptimum(t, domain.CropTeff, 0.81, 1.2),
	}
	before := make([]domain.FeatureRecord, len(records))
	copy(before, records)

	r.Rank(records)

	assert.Equal(t, before, records)
}
