package geo

// Defaults
const (
	DefaultCacheSize    = 4096
	DefaultSnapRadiusKm = 10.0
	EarthRadiusKm       = 6371.0
)

// Error messages
const (
	ErrMsgEmptyLocation      = "location is empty"
	ErrMsgInvalidCoordinates = "coordinates out of range"
	ErrMsgNoUnitCovers       = "no geo unit covers location"
	ErrMsgNoFeatureData      = "no feature data for geo unit"
	ErrMsgDuplicateUnit      = "duplicate geo unit id"
	ErrMsgUnitRegion         = "geo unit has invalid region"
	ErrMsgCreateCache        = "failed to create resolver cache"
)
