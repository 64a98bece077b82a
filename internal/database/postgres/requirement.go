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

var _ repository.Requirement = (*RequirementRepository)(nil)

// RequirementRepository implements repository.Requirement
type RequirementRepository struct {
	db *pgxpool.Pool
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *pgxpool.Pool) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const requirementColumns = `id, buyer_id, crop, quantity_tons, price_per_kg, harvest_date, region, quality_notes, created_at`

// CreateRequirement inserts a posted requirement
func (r *RequirementRepository) CreateRequirement(ctx context.Context, req *domain.CropRequirement) error {
	query := `
		INSERT INTO requirements (` + requirementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.BuyerID,
		string(req.Crop),
		req.QuantityTons,
		req.PricePerKG,
		req.HarvestDate,
		string(req.Region),
		req.QualityNotes,
		req.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgUnknownReference)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRequirement, err)
	}
	return nil
}

// GetRequirement retrieves one requirement
func (r *RequirementRepository) GetRequirement(ctx context.Context, id string) (*domain.CropRequirement, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id)
	req, err := scanRequirement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRequirementNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRequirement, err)
	}
	return req, nil
}

// GetRequirementsByIDs retrieves the requirements that exist among ids
func (r *RequirementRepository) GetRequirementsByIDs(ctx context.Context, ids []string) ([]domain.CropRequirement, error) {
	if len(ids) == 0 {
		return []domain.CropRequirement{}, nil
	}
	return r.list(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = ANY($1) ORDER BY created_at DESC, id`, ids)
}

// ListRequirementsByBuyer returns a buyer's requirements, newest first
func (r *RequirementRepository) ListRequirementsByBuyer(ctx context.Context, buyerID string) ([]domain.CropRequirement, error) {
	return r.list(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE buyer_id = $1 ORDER BY created_at DESC, id`, buyerID)
}

// ListOpenRequirementsByCrop compares calendar days in UTC so a requirement stays
// open for its whole harvest day.
func (r *RequirementRepository) ListOpenRequirementsByCrop(ctx context.Context, crop domain.CropName, asOf time.Time) ([]domain.CropRequirement, error) {
	query := `
		SELECT ` + requirementColumns + `
		FROM requirements
		WHERE crop = $1
		  AND (harvest_date AT TIME ZONE 'UTC')::date >= ($2::timestamptz AT TIME ZONE 'UTC')::date
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, string(crop), asOf)
}

func (r *RequirementRepository) list(ctx context.Context, query string, args ...any) ([]domain.CropRequirement, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRequirements, err)
	}
	defer rows.Close()

	out := make([]domain.CropRequirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRequirements, err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRequirements, err)
	}
	return out, nil
}

func scanRequirement(row rowScanner) (*domain.CropRequirement, error) {
	var (
		req          domain.CropRequirement
		crop, region string
	)
	if err := row.Scan(
		&req.ID,
		&req.BuyerID,
		&crop,
		&req.QuantityTons,
		&req.PricePerKG,
		&req.HarvestDate,
		&region,
		&req.QualityNotes,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	req.Crop = domain.CropName(crop)
	req.Region = domain.Region(region)
	req.HarvestDate = req.HarvestDate.UTC()
	req.CreatedAt = req.CreatedAt.UTC()
	return &req, nil
}
