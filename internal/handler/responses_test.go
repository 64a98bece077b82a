package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abeleng/shemeta/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation shows detail", fmt.Errorf("%w: \"kale\"", domain.ErrInvalidCrop), http.StatusBadRequest, `invalid crop: "kale"`},
		{"not found", fmt.Errorf("%w: O1", domain.ErrOfferNotFound), http.StatusNotFound, ErrMsgNotFoundError},
		{"duplicate", domain.ErrDuplicateOffer, http.StatusConflict, ErrMsgDuplicateOfferError},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict, ErrMsgOfferClosedError},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden, ErrMsgForbiddenError},
		{"conflict", fmt.Errorf("wrapped: %w", domain.ErrConflict), http.StatusConflict, ErrMsgConflictError},
		{"internal hides detail", errors.New("pq: relation does not exist"), http.StatusInternalServerError, ErrMsgGenericServerError},
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
