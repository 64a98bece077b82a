package offer

import "time"

// Defaults
const (
	DefaultTTL             = 7 * 24 * time.Hour
	DefaultExpiryBatchSize = 500
)

// Log messages
const (
	LogMsgOfferProposed      = "Offer proposed"
	LogMsgOfferResponded     = "Offer responded"
	LogMsgOfferExpired       = "Offer expired"
	LogMsgStaleOfferExpired  = "Expired stale offer before new proposal"
	LogMsgExpirySweep        = "Offer expiry sweep finished"
	LogMsgExpirySkipConflict = "Skipped offer during expiry sweep"
	LogMsgPublishFailed      = "Failed to publish offer event"
)

// Error messages
const (
	ErrMsgNoIdentity          = "no authenticated caller"
	ErrMsgNotParty            = "caller is not a party to the offer"
	ErrMsgNotRecipient        = "only the offer recipient may respond"
	ErrMsgNotRequirementOwner = "requirement belongs to another buyer"
	ErrMsgRoleCannotPropose   = "role cannot propose offers"
	ErrMsgFarmerRequired      = "farmer id is required"
	ErrMsgRequirementRequired = "requirement id is required"
	ErrMsgNotAFarmer          = "counter-party is not a farmer"
	ErrMsgSelfOffer           = "farmer id must be another user"
	ErrMsgOfferExpired        = "offer has expired"
	ErrMsgStateChanged        = "offer changed concurrently"
	ErrMsgLoadOffer           = "failed to load offer"
	ErrMsgLoadRequirement     = "failed to load requirement"
	ErrMsgLoadUser            = "failed to load user"
	ErrMsgCreateOffer         = "failed to create offer"
	ErrMsgUpdateOffer         = "failed to update offer"
	ErrMsgListOffers          = "failed to list offers"
)
