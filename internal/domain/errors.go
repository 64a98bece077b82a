package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Error kinds
	ErrMsgValidation        = "validation error"
	ErrMsgNotFound          = "not found"
	ErrMsgDuplicateOffer    = "an active offer already exists"
	ErrMsgInvalidTransition = "invalid offer transition"
	ErrMsgUnauthorized      = "unauthorized"
	ErrMsgConflict          = "concurrent update conflict"

	// Lookup errors
	ErrMsgGeoUnitNotFound     = "geo unit not found"
	ErrMsgRequirementNotFound = "requirement not found"
	ErrMsgOfferNotFound       = "offer not found"
	ErrMsgLandNotFound        = "land parcel not found"
	ErrMsgUserNotFound        = "user not found"

	// Input errors
	ErrMsgInvalidRegion   = "invalid region"
	ErrMsgInvalidCrop     = "invalid crop"
	ErrMsgInvalidSoil     = "invalid soil type"
	ErrMsgInvalidQuality  = "invalid data quality flag"
	ErrMsgInvalidQuantity = "quantity must be positive and at most 1000000 tons"
	ErrMsgInvalidPrice    = "price per kg must be positive and at most 100000"
	ErrMsgInvalidPlotSize = "plot size must be positive and at most 100000 ha"
	ErrMsgInvalidYield    = "yield estimate must be between 0 and 1000000 tons"
	ErrMsgInvalidLocation = "location is required"
	ErrMsgInvalidDecision = "decision must be accept or decline"
	ErrMsgInvalidRole     = "invalid role"
	ErrMsgHarvestPassed   = "harvest date has passed"
	ErrMsgMalformedRecord = "malformed feature record"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Error kinds. Every error returned by the engine wraps exactly one of these.
var (
	ErrValidation        = errors.New(ErrMsgValidation)
	ErrNotFound          = errors.New(ErrMsgNotFound)
	ErrDuplicateOffer    = errors.New(ErrMsgDuplicateOffer)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)
	ErrUnauthorized      = errors.New(ErrMsgUnauthorized)
	ErrConflict          = errors.New(ErrMsgConflict)
)

// Specific errors, each classified under one of the kinds above.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrGeoUnitNotFound     = kindError{kind: ErrNotFound, msg: ErrMsgGeoUnitNotFound}
	ErrRequirementNotFound = kindError{kind: ErrNotFound, msg: ErrMsgRequirementNotFound}
	ErrOfferNotFound       = kindError{kind: ErrNotFound, msg: ErrMsgOfferNotFound}
	ErrLandNotFound        = kindError{kind: ErrNotFound, msg: ErrMsgLandNotFound}
	ErrUserNotFound        = kindError{kind: ErrNotFound, msg: ErrMsgUserNotFound}

	ErrInvalidRegion   = kindError{kind: ErrValidation, msg: ErrMsgInvalidRegion}
	ErrInvalidCrop     = kindError{kind: ErrValidation, msg: ErrMsgInvalidCrop}
	ErrInvalidSoil     = kindError{kind: ErrValidation, msg: ErrMsgInvalidSoil}
	ErrInvalidQuality  = kindError{kind: ErrValidation, msg: ErrMsgInvalidQuality}
	ErrInvalidQuantity = kindError{kind: ErrValidation, msg: ErrMsgInvalidQuantity}
	ErrInvalidPrice    = kindError{kind: ErrValidation, msg: ErrMsgInvalidPrice}
	ErrInvalidPlotSize = kindError{kind: ErrValidation, msg: ErrMsgInvalidPlotSize}
	ErrInvalidYield    = kindError{kind: ErrValidation, msg: ErrMsgInvalidYield}
	ErrInvalidLocation = kindError{kind: ErrValidation, msg: ErrMsgInvalidLocation}
	ErrInvalidDecision = kindError{kind: ErrValidation, msg: ErrMsgInvalidDecision}
	ErrInvalidRole     = kindError{kind: ErrValidation, msg: ErrMsgInvalidRole}
	ErrHarvestPassed   = kindError{kind: ErrValidation, msg: ErrMsgHarvestPassed}
	ErrMalformedRecord = kindError{kind: ErrValidation, msg: ErrMsgMalformedRecord}

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)

// kindError is a comparable sentinel that also matches its kind under errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }

func (e kindError) Is(target error) bool {
	return target == e.kind
}

// IsRetryable reports whether the operation that produced err is safe to retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
