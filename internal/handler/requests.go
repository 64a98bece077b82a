package handler

// Request bodies. Value checks beyond shape live in the services.

// RegisterRequest is a self-service signup
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100,singleline"`
	Phone           string `json:"phone" validate:"max=32"`
	Role            string `json:"role" validate:"required,role"`
	Region          string `json:"region" validate:"region"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0"`
}

// TokenRequest asks for a token for an existing account
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// RegisterLandRequest describes the farmer's current parcel
type RegisterLandRequest struct {
	Region         string             `json:"region" validate:"required,region"`
	Location       string             `json:"location" validate:"required,max=200,singleline"`
	PlotSizeHa     float64            `json:"plot_size_ha" validate:"gt=0,lte=100000"`
	Soil           string             `json:"soil" validate:"required,soil"`
	Irrigation     bool               `json:"irrigation"`
	YieldEstimates map[string]float64 `json:"yield_estimates" validate:"dive,keys,crop,endkeys,gte=0,lte=1000000"`
}

// PostRequirementRequest is a buyer's crop demand. HarvestDate is YYYY-MM-DD.
type PostRequirementRequest struct {
	Crop         string  `json:"crop" validate:"required,crop"`
	QuantityTons float64 `json:"quantity_tons" validate:"gt=0,lte=1000000"`
	PricePerKG   float64 `json:"price_per_kg" validate:"gt=0,lte=100000"`
	HarvestDate  string  `json:"harvest_date" validate:"required,datetime=2006-01-02"`
	Region       string  `json:"region" validate:"required,requirement_region"`
	QualityNotes string  `json:"quality_notes" validate:"max=1000"`
}

// ProposeOfferRequest names the requirement and, for buyers, the farmer
type ProposeOfferRequest struct {
	RequirementID string `json:"requirement_id" validate:"required,max=64"`
	FarmerID      string `json:"farmer_id" validate:"max=64"`
}

// RespondOfferRequest carries the recipient's decision
type RespondOfferRequest struct {
	Decision string `json:"decision" validate:"required,decision"`
}
