package catalog

// Error messages
const (
	ErrMsgReadCatalog   = "failed to read crop catalog"
	ErrMsgParseCatalog  = "failed to parse crop catalog"
	ErrMsgInvalidRange  = "range must satisfy min <= opt <= max"
	ErrMsgUnknownCrop   = "unknown crop in catalog"
	ErrMsgInvalidYield  = "yield must be positive"
	ErrMsgInvalidWindow = "harvest days must be within 1..365"
)
