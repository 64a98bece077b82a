package suitability

// Composite weights. They sum to 1 so the base score stays in [0,1].
const (
	WeightNDVI     = 0.55
	WeightClimate  = 0.25
	WeightDistance = 0.20
)

// Signal normalization
const (
	// DistanceScale is the distance at which the distance score halves.
	DistanceScale = 5.0

	// RainfallShare is the rainfall part of the climate term; temperature takes the rest.
	RainfallShare = 0.8

	RainfallUnderWeight    = 2.2
	RainfallOverWeight     = 1.6
	TemperatureUnderWeight = 1.2
	TemperatureOverWeight  = 1.2

	// UncataloguedClimateScore is used when a crop has no agronomic profile.
	UncataloguedClimateScore = 0.5
)

// Data quality handling. Good and partial scores live in [QualityFloor, 1];
// poor scores live in [0, PoorCeiling] with PoorCeiling < QualityFloor.
const (
	PartialMultiplier = 0.8
	QualityFloor      = 0.25
	PoorCeiling       = 0.24
)

// Rejection reasons
const (
	ReasonEmptyCrop      = "empty crop name"
	ReasonNonFinite      = "non-finite signal"
	ReasonNDVIOutOfRange = "ndvi outside [-1, 1]"
	ReasonNegativeValue  = "negative distance or rainfall"
	ReasonUnknownQuality = "unknown data quality flag"
	ReasonDuplicateCrop  = "duplicate crop in geo unit"
)
