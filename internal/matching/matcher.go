// Package matching ranks farmers against buyer requirements and buyer
// requirements against a farmer's crop.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abeleng/shemeta/internal/catalog"
	"github.com/abeleng/shemeta/internal/domain"
)

// Options tunes a Matcher.
type Options struct {
	// MinViability is the crop suitability (0..1) a farmer's geo unit needs for the crop.
	MinViability float64
	// Concurrency bounds parallel candidate scoring.
	Concurrency int
	// IrrigationKeywords are matched case-insensitively against requirement quality notes.
	IrrigationKeywords []string
}

// DefaultOptions returns the production tuning.
func DefaultOptions() Options {
	return Options{
		MinViability:       DefaultMinViability,
		Concurrency:        DefaultConcurrency,
		IrrigationKeywords: DefaultIrrigationKeywords,
	}
}

// Matcher is stateless apart from its reference catalog and is safe for concurrent use.
type Matcher struct {
	catalog *catalog.Catalog
	opts    Options
}

// NewMatcher creates a matcher. Zero option fields take their defaults.
func NewMatcher(cat *catalog.Catalog, opts Options) *Matcher {
	def := DefaultOptions()
	if opts.MinViability <= 0 {
		opts.MinViability = def.MinViability
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.IrrigationKeywords == nil {
		opts.IrrigationKeywords = def.IrrigationKeywords
	}
	return &Matcher{catalog: cat, opts: opts}
}

// Match filters and ranks candidates for req. Inputs are not modified and the
// output order is fully determined by the inputs.
func (m *Matcher) Match(ctx context.Context, req domain.CropRequirement, candidates []domain.FarmerProfile) ([]domain.Match, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eligible := make([]int, 0, len(candidates))
	for i := range candidates {
		if m.eligible(candidates[i], req.Crop) && req.Region.Accepts(candidates[i].Region) {
			eligible = append(eligible, i)
		}
	}

	needsIrrigation := m.impliesIrrigation(req.QualityNotes)
	results := make([]domain.Match, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for slot, idx := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[slot] = m.scoreFarmer(req, candidates[idx], needsIrrigation)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMatchCancelled, err)
	}

	sort.Slice(results, func(i, j int) bool { return lessMatch(results[i], results[j]) })
	return results, nil
}

// MatchBuyers ranks the requirements a farmer could supply with one crop.
// Requirements for other crops, or outside the farmer's region, are dropped.
func (m *Matcher) MatchBuyers(ctx context.Context, cand domain.CropCandidate, reqs []domain.CropRequirement) ([]domain.BuyerMatch, error) {
	if _, ok := domain.ParseCrop(string(cand.Crop)); !ok {
		return nil, domain.ErrInvalidCrop
	}
	if !m.eligible(cand.Farmer, cand.Crop) {
		return []domain.BuyerMatch{}, nil
	}

	eligible := make([]int, 0, len(reqs))
	maxPrice := 0.0
	for i := range reqs {
		r := reqs[i]
		if r.Crop != cand.Crop || !r.Region.Accepts(cand.Farmer.Region) || r.Validate() != nil {
			continue
		}
		eligible = append(eligible, i)
		maxPrice = max(maxPrice, r.PricePerKG)
	}

	results := make([]domain.BuyerMatch, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for slot, idx := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[slot] = m.scoreBuyer(cand, reqs[idx], maxPrice)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMatchCancelled, err)
	}

	sort.Slice(results, func(i, j int) bool { return lessBuyerMatch(results[i], results[j]) })
	return results, nil
}

func (m *Matcher) eligible(f domain.FarmerProfile, crop domain.CropName) bool {
	s, ok := f.Suitability[crop]
	return ok && !math.IsNaN(s) && s >= m.opts.MinViability
}

func (m *Matcher) scoreFarmer(req domain.CropRequirement, f domain.FarmerProfile, needsIrrigation bool) domain.Match {
	estimated := m.EstimatedYield(f, req.Crop)

	b := domain.MatchBreakdown{
		Suitability: clamp01(f.Suitability[req.Crop]),
		Capacity:    capacityFit(estimated, req.QuantityTons),
		Timing:      m.timing(req),
		Irrigation:  1,
	}
	if needsIrrigation && !f.Irrigation {
		b.Irrigation = 0
	}

	score := WeightSuitability*b.Suitability +
		WeightCapacity*b.Capacity +
		WeightTiming*b.Timing +
		WeightIrrigation*b.Irrigation

	return domain.Match{
		RequirementID:      req.ID,
		FarmerID:           f.FarmerID,
		Name:               f.Name,
		Phone:              f.Phone,
		Location:           f.Location,
		Region:             f.Region,
		Crop:               req.Crop,
		SuitabilityPct:     percentage(score),
		EstimatedYieldTons: round2(estimated),
		PlotSizeHa:         f.PlotSizeHa,
		Soil:               f.Soil,
		Irrigation:         f.Irrigation,
		ExperienceYears:    f.ExperienceYears,
		Rating:             f.Rating,
		Breakdown:          roundBreakdown(b),
		FormulaVersion:     domain.FormulaVersion,
	}
}

func (m *Matcher) scoreBuyer(cand domain.CropCandidate, req domain.CropRequirement, maxPrice float64) domain.BuyerMatch {
	b := domain.MatchBreakdown{
		Suitability: clamp01(cand.Farmer.Suitability[cand.Crop]),
		Price:       req.PricePerKG / maxPrice,
		Capacity:    capacityFit(m.EstimatedYield(cand.Farmer, cand.Crop), req.QuantityTons),
		Timing:      m.timing(req),
		Locality:    1,
	}
	if req.Region == domain.RegionAny {
		b.Locality = WildcardLocality
	}

	score := BuyerWeightSuitability*b.Suitability +
		BuyerWeightPrice*b.Price +
		BuyerWeightVolume*b.Capacity +
		BuyerWeightTiming*b.Timing +
		BuyerWeightLocality*b.Locality

	return domain.BuyerMatch{
		RequirementID:  req.ID,
		BuyerID:        req.BuyerID,
		Crop:           req.Crop,
		QuantityTons:   req.QuantityTons,
		PricePerKG:     req.PricePerKG,
		HarvestDate:    req.HarvestDate,
		Region:         req.Region,
		QualityNotes:   req.QualityNotes,
		SuitabilityPct: percentage(score),
		Breakdown:      roundBreakdown(b),
		FormulaVersion: domain.FormulaVersion,
	}
}

// EstimatedYield is plot size times the farmer's own per-hectare estimate,
// falling back to the catalog yield.
func (m *Matcher) EstimatedYield(f domain.FarmerProfile, crop domain.CropName) float64 {
	perHa := f.YieldEstimates[crop]
	if !(perHa > 0) {
		if p, ok := m.catalog.Lookup(crop); ok {
			perHa = p.YieldTonsPerHa
		}
	}
	if !(f.PlotSizeHa > 0) || !(perHa > 0) {
		return 0
	}
	return f.PlotSizeHa * perHa
}

func (m *Matcher) timing(req domain.CropRequirement) float64 {
	p, ok := m.catalog.Lookup(req.Crop)
	if !ok {
		return NeutralScore
	}
	days := float64(p.Harvest.DaysFrom(req.HarvestDate))
	return clamp01(1 - days/TimingToleranceDays)
}

func (m *Matcher) impliesIrrigation(notes string) bool {
	notes = strings.ToLower(notes)
	for _, kw := range m.opts.IrrigationKeywords {
		if kw != "" && strings.Contains(notes, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func capacityFit(capacityTons, quantityTons float64) float64 {
	if !(quantityTons > 0) {
		return 0
	}
	return clamp01(capacityTons / quantityTons)
}

// lessMatch orders by suitability desc, estimated yield desc, rating desc, farmer id asc.
func lessMatch(a, b domain.Match) bool {
	if a.SuitabilityPct != b.SuitabilityPct {
		return a.SuitabilityPct > b.SuitabilityPct
	}
	if a.EstimatedYieldTons != b.EstimatedYieldTons {
		return a.EstimatedYieldTons > b.EstimatedYieldTons
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.FarmerID < b.FarmerID
}

// lessBuyerMatch orders by suitability desc, price desc, quantity desc, requirement id asc.
func lessBuyerMatch(a, b domain.BuyerMatch) bool {
	if a.SuitabilityPct != b.SuitabilityPct {
		return a.SuitabilityPct > b.SuitabilityPct
	}
	if a.PricePerKG != b.PricePerKG {
		return a.PricePerKG > b.PricePerKG
	}
	if a.QuantityTons != b.QuantityTons {
		return a.QuantityTons > b.QuantityTons
	}
	return a.RequirementID < b.RequirementID
}

func percentage(score float64) float64 {
	return round2(100 * clamp01(score))
}

func roundBreakdown(b domain.MatchBreakdown) domain.MatchBreakdown {
	return domain.MatchBreakdown{
		Suitability: round4(b.Suitability),
		Capacity:    round4(b.Capacity),
		Timing:      round4(b.Timing),
		Irrigation:  round4(b.Irrigation),
		Price:       round4(b.Price),
		Locality:    round4(b.Locality),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
