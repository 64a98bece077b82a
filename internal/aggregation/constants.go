package aggregation

// DefaultConcurrency bounds parallel requirement matching.
const DefaultConcurrency = 4

const (
	LogMsgBuyerDashboard  = "Computed buyer dashboard"
	LogMsgFarmerDashboard = "Computed farmer dashboard"
)

const (
	ErrMsgListRequirements = "failed to list requirements"
	ErrMsgListOffers       = "failed to list offers"
	ErrMsgMatchRequirement = "failed to match requirement"
)
