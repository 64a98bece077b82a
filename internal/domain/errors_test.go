package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsMatchTheirKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrGeoUnitNotFound, ErrNotFound},
		{ErrRequirementNotFound, ErrNotFound},
		{ErrOfferNotFound, ErrNotFound},
		{ErrLandNotFound, ErrNotFound},
		{ErrUserNotFound, ErrNotFound},
		{ErrInvalidRegion, ErrValidation},
		{ErrInvalidCrop, ErrValidation},
		{ErrInvalidQuantity, ErrValidation},
		{ErrInvalidPrice, ErrValidation},
		{ErrInvalidYield, ErrValidation},
		{ErrInvalidDecision, ErrValidation},
		{ErrHarvestPassed, ErrValidation},
		{ErrMalformedRecord, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: detail", tt.err)
			assert.ErrorIs(t, wrapped, tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.False(t, errors.Is(wrapped, ErrConflict))
		})
	}
}

func TestSpecificErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrOfferNotFound, ErrRequirementNotFound))
	assert.False(t, errors.Is(ErrInvalidCrop, ErrInvalidRegion))
	assert.False(t, errors.Is(ErrInvalidCrop, ErrNotFound))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConflict))
	assert.True(t, IsRetryable(fmt.Errorf("%w: offer o1 version 3", ErrConflict)))
	assert.False(t, IsRetryable(ErrDuplicateOffer))
	assert.False(t, IsRetryable(ErrInvalidTransition))
	assert.False(t, IsRetryable(ErrOfferNotFound))
	assert.False(t, IsRetryable(nil))
}
