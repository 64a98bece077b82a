package domain

// BuyerDashboard is the buyer rollup, computed on every read.
type BuyerDashboard struct {
	BuyerID             string `json:"buyer_id"`
	OpenRequirements    int    `json:"open_requirements"`
	TotalFarmersMatched int    `json:"total_farmers_matched"`
	ActiveOffers        int    `json:"active_offers"`
	TotalPurchases      int    `json:"total_purchases"`
}

// FarmerDashboard is the farmer rollup, computed on every read.
type FarmerDashboard struct {
	FarmerID          string  `json:"farmer_id"`
	ActiveOffers      int     `json:"active_offers"`
	AcceptedOffers    int     `json:"accepted_offers"`
	PotentialEarnings float64 `json:"potential_earnings"`
	Currency          string  `json:"currency"`
}

// RequirementSummary pairs a requirement with its current matched farmer count.
type RequirementSummary struct {
	Requirement    CropRequirement `json:"requirement"`
	MatchedFarmers int             `json:"matched_farmers"`
	ActiveOffers   int             `json:"active_offers"`
}

// OfferView is an offer with the requirement it refers to, as shown on home pages.
type OfferView struct {
	Offer       Offer           `json:"offer"`
	State       OfferState      `json:"state"`
	Requirement CropRequirement `json:"requirement"`
}

// FarmerHome is the farmer landing payload.
type FarmerHome struct {
	Land            *LandParcel             `json:"land_details"`
	Recommendations map[string][]ScoredCrop `json:"recommendations"`
	Offers          []OfferView             `json:"matches"`
}
