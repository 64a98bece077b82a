package domain

// FormulaVersion identifies the scoring formulas used for suitability and matching.
// Any change to weights or normalization must bump it.
const FormulaVersion = "v1"

// Unit constants
const (
	KGPerTon = 1000.0
	Currency = "ETB"
)

// MaxRecommendationDistance is the largest feature distance shown on a farmer's home page.
const MaxRecommendationDistance = 17.0

// Upper bounds on user-supplied quantities. They keep every derived amount
// (offer value, earnings sums) finite.
const (
	MaxQuantityTons = 1_000_000.0
	MaxPricePerKG   = 100_000.0
	MaxPlotSizeHa   = 100_000.0
	MaxYieldTons    = 1_000_000.0
)

// positiveUpTo reports whether v is in (0, limit]. NaN and infinities fail.
func positiveUpTo(v, limit float64) bool {
	return v > 0 && v <= limit
}
