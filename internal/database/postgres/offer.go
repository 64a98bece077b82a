package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/repository"
)

var _ repository.Offer = (*OfferRepository)(nil)

// OfferRepository implements repository.Offer. The partial unique index
// uq_offers_active_triple enforces one proposed offer per triple.
type OfferRepository struct {
	db *pgxpool.Pool
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, buyer_id, farmer_id, requirement_id, initiator_id, crop, quantity_tons, price_per_kg,
	state, version, created_at, expires_at, updated_at, responded_at`

// CreateOffer inserts a proposed offer
func (r *OfferRepository) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		offer.ID,
		offer.BuyerID,
		offer.FarmerID,
		offer.RequirementID,
		offer.InitiatorID,
		string(offer.Crop),
		offer.QuantityTons,
		offer.PricePerKG,
		string(offer.State),
		offer.Version,
		offer.CreatedAt,
		offer.ExpiresAt,
		offer.UpdatedAt,
		offer.RespondedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateOffer, offer.Key())
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgUnknownReference)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertOffer, err)
	}
	return nil
}

// GetOffer retrieves one offer
func (r *OfferRepository) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOffer, err)
	}
	return o, nil
}

// FindProposedOffer returns the proposed offer holding key, if any
func (r *OfferRepository) FindProposedOffer(ctx context.Context, key domain.OfferKey) (*domain.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE buyer_id = $1 AND farmer_id = $2 AND requirement_id = $3 AND state = 'proposed'
	`
	row := r.db.QueryRow(ctx, query, key.BuyerID, key.FarmerID, key.RequirementID)
	o, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOffer, err)
	}
	return o, nil
}

// UpdateOfferStateIfMatches moves a proposed offer at expectedVersion to state.
// Zero rows affected means another writer got there first.
func (r *OfferRepository) UpdateOfferStateIfMatches(ctx context.Context, id string, expectedVersion int, state domain.OfferState, at time.Time) (int64, error) {
	query := `
		UPDATE offers
		SET state = $3,
		    version = version + 1,
		    updated_at = $4,
		    responded_at = CASE WHEN $3 = 'expired' THEN responded_at ELSE $4 END
		WHERE id = $1 AND version = $2 AND state = 'proposed'
	`
	tag, err := r.db.Exec(ctx, query, id, expectedVersion, string(state), at)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateOffer, err)
	}
	return tag.RowsAffected(), nil
}

// ListOffersByBuyer returns every offer of a buyer, oldest first
func (r *OfferRepository) ListOffersByBuyer(ctx context.Context, buyerID string) ([]domain.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers WHERE buyer_id = $1 ORDER BY created_at, id`, buyerID)
}

// ListOffersByFarmer returns every offer of a farmer, oldest first
func (r *OfferRepository) ListOffersByFarmer(ctx context.Context, farmerID string) ([]domain.Offer, error) {
	return r.list(ctx, `SELECT `+offerColumns+` FROM offers WHERE farmer_id = $1 ORDER BY created_at, id`, farmerID)
}

// ListDueOffers returns proposed offers whose expiry is at or before asOf.
// A limit of zero means no limit.
func (r *OfferRepository) ListDueOffers(ctx context.Context, asOf time.Time, limit int) ([]domain.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE state = 'proposed' AND expires_at <= $1
		ORDER BY created_at, id
		LIMIT NULLIF($2::int, 0)
	`
	return r.list(ctx, query, asOf, limit)
}

func (r *OfferRepository) list(ctx context.Context, query string, args ...any) ([]domain.Offer, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOffers, err)
	}
	defer rows.Close()

	out := make([]domain.Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOffers, err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOffers, err)
	}
	return out, nil
}

func scanOffer(row rowScanner) (*domain.Offer, error) {
	var (
		o           domain.Offer
		crop, state string
	)
	if err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.FarmerID,
		&o.RequirementID,
		&o.InitiatorID,
		&crop,
		&o.QuantityTons,
		&o.PricePerKG,
		&state,
		&o.Version,
		&o.CreatedAt,
		&o.ExpiresAt,
		&o.UpdatedAt,
		&o.RespondedAt,
	); err != nil {
		return nil, err
	}
	o.Crop = domain.CropName(crop)
	o.State = domain.OfferState(state)
	return &o, nil
}
