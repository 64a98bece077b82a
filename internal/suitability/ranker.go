// Package suitability ranks candidate crops for a geo unit from its feature records.
package suitability

import (
	"math"
	"sort"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/domain"
)

// Rejection records a feature record excluded from ranking.
type Rejection struct {
	Crop   domain.CropName `json:"crop"`
	Reason string          `json:"reason"`
}

// Result is a ranking together with the records it had to drop.
type Result struct {
	Crops    []domain.ScoredCrop `json:"crops"`
	Rejected []Rejection         `json:"rejected,omitempty"`
}

// Ranker scores feature records against a crop catalog. It holds no mutable
// state and is safe for concurrent use.
type Ranker struct {
	catalog *catalog.Catalog
}

// NewRanker creates a ranker backed by cat.
func NewRanker(cat *catalog.Catalog) *Ranker {
	return &Ranker{catalog: cat}
}

// Rank returns every valid record scored and ordered best first.
func (r *Ranker) Rank(records []domain.FeatureRecord) []domain.ScoredCrop {
	return r.RankDetailed(records).Crops
}

// RankDetailed ranks records and reports the malformed ones it excluded.
// A malformed record never affects the scores of the others.
func (r *Ranker) RankDetailed(records []domain.FeatureRecord) Result {
	res := Result{Crops: make([]domain.ScoredCrop, 0, len(records))}

	counts := make(map[domain.CropName]int, len(records))
	for _, rec := range records {
		counts[rec.Crop]++
	}

	for _, rec := range records {
		if counts[rec.Crop] > 1 && rec.Crop != "" {
			res.Rejected = append(res.Rejected, Rejection{Crop: rec.Crop, Reason: ReasonDuplicateCrop})
			continue
		}
		if reason := validate(rec); reason != "" {
			res.Rejected = append(res.Rejected, Rejection{Crop: rec.Crop, Reason: reason})
			continue
		}
		score := r.Score(rec)
		res.Crops = append(res.Crops, domain.ScoredCrop{
			Crop:           rec.Crop,
			DisplayName:    catalog.DisplayName(rec.Crop),
			Score:          score,
			Percentage:     math.Round(score*10000) / 100,
			NDVIPeak:       rec.NDVIPeak,
			Distance:       rec.Distance,
			RainfallMM:     rec.RainfallMM,
			Quality:        rec.Quality,
			FormulaVersion: domain.FormulaVersion,
		})
	}

	sort.SliceStable(res.Crops, func(i, j int) bool {
		return less(res.Crops[i], res.Crops[j])
	})
	sort.SliceStable(res.Rejected, func(i, j int) bool {
		if res.Rejected[i].Crop != res.Rejected[j].Crop {
			return res.Rejected[i].Crop < res.Rejected[j].Crop
		}
		return res.Rejected[i].Reason < res.Rejected[j].Reason
	})
	return res
}

// less orders by score desc, then NDVI desc, then distance asc, then crop name asc.
func less(a, b domain.ScoredCrop) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.NDVIPeak != b.NDVIPeak {
		return a.NDVIPeak > b.NDVIPeak
	}
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Crop < b.Crop
}

// Score computes the composite suitability of a single valid record in [0,1].
func (r *Ranker) Score(rec domain.FeatureRecord) float64 {
	base := WeightNDVI*ndviScore(rec.NDVIPeak) +
		WeightClimate*r.climateScore(rec) +
		WeightDistance*distanceScore(rec.Distance)
	base = clamp01(base)

	switch rec.Quality {
	case domain.QualityPoor:
		return PoorCeiling * base
	case domain.QualityPartial:
		return QualityFloor + (1-QualityFloor)*base*PartialMultiplier
	default:
		return QualityFloor + (1-QualityFloor)*base
	}
}

func (r *Ranker) climateScore(rec domain.FeatureRecord) float64 {
	profile, ok := r.catalog.Lookup(rec.Crop)
	if !ok {
		return UncataloguedClimateScore
	}
	rain := 1 - rangePenalty(rec.RainfallMM, profile.Rainfall, RainfallUnderWeight, RainfallOverWeight)
	temp := 1 - rangePenalty(rec.TemperatureC, profile.Temperature, TemperatureUnderWeight, TemperatureOverWeight)
	return RainfallShare*clamp01(rain) + (1-RainfallShare)*clamp01(temp)
}

// rangePenalty is zero at the optimum and grows linearly away from it, with the
// parts outside [min, max] weighted by under and over.
func rangePenalty(x float64, rg catalog.Range, under, over float64) float64 {
	span := rg.Span()
	switch {
	case x < rg.Min:
		return ((rg.Opt - rg.Min) + under*(rg.Min-x)) / span
	case x <= rg.Opt:
		return (rg.Opt - x) / span
	case x <= rg.Max:
		return (x - rg.Opt) / span
	default:
		return ((rg.Max - rg.Opt) + over*(x-rg.Max)) / span
	}
}

func ndviScore(ndvi float64) float64 {
	return clamp01(ndvi)
}

func distanceScore(d float64) float64 {
	return 1 / (1 + d/DistanceScale)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func validate(rec domain.FeatureRecord) string {
	if rec.Crop == "" {
		return ReasonEmptyCrop
	}
	for _, v := range []float64{rec.Distance, rec.RainfallMM, rec.TemperatureC, rec.NDVIPeak} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ReasonNonFinite
		}
	}
	if rec.NDVIPeak < -1 || rec.NDVIPeak > 1 {
		return ReasonNDVIOutOfRange
	}
	if rec.Distance < 0 || rec.RainfallMM < 0 {
		return ReasonNegativeValue
	}
	switch rec.Quality {
	case domain.QualityGood, domain.QualityPartial, domain.QualityPoor:
		return ""
	}
	return ReasonUnknownQuality
}
