package domain

import "time"

// FarmerProfile is the matching view of a farmer: their current parcel, their
// account metadata, and the crop suitability scores of the parcel's geo unit.
type FarmerProfile struct {
	FarmerID        string               `json:"farmer_id"`
	Name            string               `json:"name"`
	Phone           string               `json:"phone,omitempty"`
	Region          Region               `json:"region"`
	Location        string               `json:"location"`
	GeoUnitID       string               `json:"geo_unit_id,omitempty"`
	PlotSizeHa      float64              `json:"plot_size_ha"`
	Soil            SoilType             `json:"soil_type"`
	Irrigation      bool                 `json:"irrigation_available"`
	ExperienceYears int                  `json:"experience_years"`
	Rating          float64              `json:"rating"`
	YieldEstimates  map[CropName]float64 `json:"yield_estimates,omitempty"`
	Suitability     map[CropName]float64 `json:"suitability,omitempty"`
}

// MatchBreakdown exposes the weighted components behind a suitability percentage.
type MatchBreakdown struct {
	Suitability float64 `json:"suitability"`
	Capacity    float64 `json:"capacity"`
	Timing      float64 `json:"timing"`
	Irrigation  float64 `json:"irrigation,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Locality    float64 `json:"locality,omitempty"`
}

// Match is a farmer ranked against a buyer requirement. It is always recomputed.
type Match struct {
	RequirementID      string         `json:"requirement_id"`
	FarmerID           string         `json:"farmer_id"`
	Name               string         `json:"name"`
	Phone              string         `json:"phone,omitempty"`
	Location           string         `json:"location"`
	Region             Region         `json:"region"`
	Crop               CropName       `json:"crop"`
	SuitabilityPct     float64        `json:"suitability"`
	EstimatedYieldTons float64        `json:"estimated_yield"`
	PlotSizeHa         float64        `json:"plot_size"`
	Soil               SoilType       `json:"soil_type"`
	Irrigation         bool           `json:"irrigation_available"`
	ExperienceYears    int            `json:"experience"`
	Rating             float64        `json:"rating"`
	Breakdown          MatchBreakdown `json:"breakdown"`
	FormulaVersion     string         `json:"formula_version"`
}

// BuyerMatch is a buyer requirement ranked for a farmer's crop.
type BuyerMatch struct {
	RequirementID  string         `json:"requirement_id"`
	BuyerID        string         `json:"buyer_id"`
	BuyerName      string         `json:"buyer_name,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Crop           CropName       `json:"crop"`
	QuantityTons   float64        `json:"quantity_tons"`
	PricePerKG     float64        `json:"price_per_kg"`
	HarvestDate    time.Time      `json:"harvest_date"`
	Region         Region         `json:"region"`
	QualityNotes   string         `json:"quality_notes,omitempty"`
	SuitabilityPct float64        `json:"suitability"`
	Breakdown      MatchBreakdown `json:"breakdown"`
	FormulaVersion string         `json:"formula_version"`
}

// CropCandidate is a farmer offering one crop, the input of buyer matching.
type CropCandidate struct {
	Farmer FarmerProfile `json:"farmer"`
	Crop   CropName      `json:"crop"`
}
