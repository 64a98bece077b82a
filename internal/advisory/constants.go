package advisory

const (
	LogMsgLandRegistered     = "Land parcel registered"
	LogMsgGeoUnitNotFound    = "No geo unit for land; recommendations unavailable"
	LogMsgBuyersMatched      = "Matched buyers for farmer crop"
	LogMsgPublishFailed      = "Failed to publish land event"
	LogMsgMissingRequirement = "Offer references unknown requirement"
)

const (
	ErrMsgNoIdentity       = "no authenticated caller"
	ErrMsgFarmersOnly      = "only farmers may use farmer operations"
	ErrMsgResolveLocation  = "failed to resolve location"
	ErrMsgCreateLand       = "failed to create land parcel"
	ErrMsgLoadLand         = "failed to load land parcel"
	ErrMsgLoadUser         = "failed to load user"
	ErrMsgLoadUsers        = "failed to load buyers"
	ErrMsgRank             = "failed to rank crops"
	ErrMsgListOffers       = "failed to list offers"
	ErrMsgLoadRequirements = "failed to load requirements"
	ErrMsgBuildProfile     = "failed to build farmer profile"
	ErrMsgMatchBuyers      = "failed to match buyers"
)
