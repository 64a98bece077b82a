package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a referenced row is missing
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - User Operations
const (
	ErrMsgFailedToInsertUser = "failed to insert user"
	ErrMsgFailedToGetUser    = "failed to get user"
	ErrMsgFailedToGetUsers   = "failed to get users"
	ErrMsgUserExists         = "user already exists"
)

// Error Messages - Land Operations
const (
	ErrMsgFailedToInsertLand   = "failed to insert land parcel"
	ErrMsgFailedToGetLand      = "failed to get land parcel"
	ErrMsgFailedToListFarmers  = "failed to list farmers"
	ErrMsgFailedToMarshalYield = "failed to marshal yield estimates"
	ErrMsgFailedToDecodeYield  = "failed to decode yield estimates"
	ErrMsgUnknownReference     = "referenced user or geo unit does not exist"
)

// Error Messages - Requirement Operations
const (
	ErrMsgFailedToInsertRequirement = "failed to insert requirement"
	ErrMsgFailedToGetRequirement    = "failed to get requirement"
	ErrMsgFailedToListRequirements  = "failed to list requirements"
)

// Error Messages - Offer Operations
const (
	ErrMsgFailedToInsertOffer = "failed to insert offer"
	ErrMsgFailedToGetOffer    = "failed to get offer"
	ErrMsgFailedToUpdateOffer = "failed to update offer state"
	ErrMsgFailedToListOffers  = "failed to list offers"
)

// Error Messages - Geo Operations
const (
	ErrMsgFailedToGetFeatures     = "failed to get feature records"
	ErrMsgFailedToListGeoUnits    = "failed to list geo units"
	ErrMsgFailedToUpsertGeoUnits  = "failed to upsert geo units"
	ErrMsgFailedToReplaceFeatures = "failed to replace feature records"
	ErrMsgFailedToMarshalBoundary = "failed to marshal boundary"
	ErrMsgFailedToDecodeBoundary  = "failed to decode boundary"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)
