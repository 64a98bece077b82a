package repository

import (
	"context"
	"time"

	"github.com/abeleng/shemeta/internal/domain"
)

// Offer defines the interface for offer persistence.
//
// CreateOffer must reject a second proposed offer for the same (buyer, farmer,
// requirement) triple with domain.ErrDuplicateOffer, atomically with the insert.
// UpdateOfferStateIfMatches only updates a proposed offer still at expectedVersion
// and returns the number of rows changed.
type Offer interface {
	CreateOffer(ctx context.Context, offer *domain.Offer) error
	GetOffer(ctx context.Context, id string) (*domain.Offer, error)
	FindProposedOffer(ctx context.Context, key domain.OfferKey) (*domain.Offer, error)
	UpdateOfferStateIfMatches(ctx context.Context, id string, expectedVersion int, state domain.OfferState, at time.Time) (int64, error)
	ListOffersByBuyer(ctx context.Context, buyerID string) ([]domain.Offer, error)
	ListOffersByFarmer(ctx context.Context, farmerID string) ([]domain.Offer, error)
	ListDueOffers(ctx context.Context, asOf time.Time, limit int) ([]domain.Offer, error)
}
