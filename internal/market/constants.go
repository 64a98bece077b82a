package market

// Log messages
const (
	LogMsgRequirementPosted = "Crop requirement posted"
	LogMsgFarmersMatched    = "Matched farmers for requirement"
	LogMsgPublishFailed     = "Failed to publish requirement event"
)

// Error messages
const (
	ErrMsgNoIdentity        = "no authenticated caller"
	ErrMsgBuyersOnly        = "only buyers may post requirements"
	ErrMsgNotOwner          = "requirement belongs to another buyer"
	ErrMsgHarvestDateNeeded = "harvest date is required"
	ErrMsgCreateRequirement = "failed to create requirement"
	ErrMsgLoadRequirement   = "failed to load requirement"
	ErrMsgListRequirements  = "failed to list requirements"
	ErrMsgBuildProfiles     = "failed to build farmer profiles"
	ErrMsgMatchFarmers      = "failed to match farmers"
)
