package refdata

// Reference file base names looked up inside a reference data directory
const (
	BaseGeoUnits = "geo_units"
	BaseFeatures = "features"
	BaseFarmers  = "farmers"
)

// Supported file extensions, in lookup order
var Extensions = []string{".csv", ".xlsx", ".yaml", ".yml"}

// Separators inside a single cell
const (
	PointSeparator = ";"
	YieldSeparator = ";"
	YieldPairSep   = ":"
)

// Error messages
const (
	ErrMsgUnsupportedFormat = "unsupported reference file format"
	ErrMsgOpenFile          = "failed to open reference file"
	ErrMsgReadHeader        = "failed to read header row"
	ErrMsgNoSheet           = "workbook has no sheets"
	ErrMsgMissingColumns    = "missing required columns"
	ErrMsgBadRow            = "invalid row"
	ErrMsgBadNumber         = "not a number"
	ErrMsgBadPoint          = "point must be \"lat lon\""
	ErrMsgBadYield          = "yield must be crop:tons"
	ErrMsgUnknownRegion     = "unknown region"
	ErrMsgUnknownCrop       = "unknown crop"
	ErrMsgUnknownSoil       = "unknown soil"
	ErrMsgUnknownQuality    = "unknown quality"
	ErrMsgStoreGeoUnits     = "failed to store geo units"
	ErrMsgStoreFeatures     = "failed to store features"
	ErrMsgStoreFarmer       = "failed to store farmer"
)

// Log messages
const (
	LogMsgImported     = "Reference data imported"
	LogMsgFileSkipped  = "Reference file not found, skipping"
	LogMsgFarmerExists = "Farmer already present, skipping"
	LogMsgUnresolved   = "Farmer location did not resolve to a geo unit"
)
