package matching

// Farmer-side weights (match). They sum to 1.
const (
	WeightSuitability = 0.50
	WeightCapacity    = 0.25
	WeightTiming      = 0.15
	WeightIrrigation  = 0.10
)

// Buyer-side weights (matchBuyers). They sum to 1.
const (
	BuyerWeightSuitability = 0.35
	BuyerWeightPrice       = 0.25
	BuyerWeightVolume      = 0.15
	BuyerWeightTiming      = 0.15
	BuyerWeightLocality    = 0.10
)

// Defaults
const (
	DefaultMinViability = 0.35
	DefaultConcurrency  = 8

	// TimingToleranceDays is the gap from the harvest window at which the timing term reaches zero.
	TimingToleranceDays = 60.0

	// NeutralScore is used for a term that cannot be evaluated (uncatalogued crop).
	NeutralScore = 0.5

	// WildcardLocality is the locality score of a requirement that accepts any region.
	WildcardLocality = 0.5
)

// DefaultIrrigationKeywords mark quality notes that demand irrigated supply.
var DefaultIrrigationKeywords = []string{"irrigat", "year-round", "off-season", "dry season", "consistent moisture"}

// Error messages
const (
	ErrMsgMatchCancelled = "matching cancelled"
)
