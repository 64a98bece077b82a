package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/repository"
)

var (
	_ repository.Land         = (*LandRepository)(nil)
	_ repository.FarmerSource = (*LandRepository)(nil)
)

// LandRepository implements repository.Land and repository.FarmerSource
type LandRepository struct {
	db *pgxpool.Pool
}

// NewLandRepository creates a new land repository
func NewLandRepository(db *pgxpool.Pool) *LandRepository {
	return &LandRepository{db: db}
}

// CreateLand appends a parcel for the farmer
func (r *LandRepository) CreateLand(ctx context.Context, land *domain.LandParcel) error {
	yields, err := marshalYields(land.YieldEstimates)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lands (id, farmer_id, region, location, plot_size_ha, soil, irrigation, geo_unit_id, yield_estimates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		land.ID,
		land.FarmerID,
		string(land.Region),
		land.Location,
		land.PlotSizeHa,
		string(land.Soil),
		land.Irrigation,
		land.GeoUnitID,
		yields,
		land.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgUnknownReference)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertLand, err)
	}
	return nil
}

// GetLatestLand returns the newest parcel of a farmer
func (r *LandRepository) GetLatestLand(ctx context.Context, farmerID string) (*domain.LandParcel, error) {
	query := `
		SELECT id, farmer_id, region, location, plot_size_ha, soil, irrigation, geo_unit_id, yield_estimates, created_at
		FROM lands
		WHERE farmer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		land         domain.LandParcel
		region, soil string
		yields       []byte
	)
	err := r.db.QueryRow(ctx, query, farmerID).Scan(
		&land.ID,
		&land.FarmerID,
		&region,
		&land.Location,
		&land.PlotSizeHa,
		&soil,
		&land.Irrigation,
		&land.GeoUnitID,
		&yields,
		&land.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: farmer %s", domain.ErrLandNotFound, farmerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLand, err)
	}
	land.Region = domain.Region(region)
	land.Soil = domain.SoilType(soil)
	if land.YieldEstimates, err = unmarshalYields(yields); err != nil {
		return nil, err
	}
	return &land, nil
}

// FarmersByRegion joins each farmer's latest parcel with their account
func (r *LandRepository) FarmersByRegion(ctx context.Context, region domain.Region) ([]domain.FarmerProfile, error) {
	query := `
		SELECT u.id, u.name, u.phone, u.experience_years, u.rating,
		       l.region, l.location, l.plot_size_ha, l.soil, l.irrigation,
		       COALESCE(l.geo_unit_id, ''), l.yield_estimates
		FROM (
			SELECT DISTINCT ON (farmer_id) *
			FROM lands
			ORDER BY farmer_id, created_at DESC, id DESC
		) l
		JOIN users u ON u.id = l.farmer_id
		WHERE $1 = 'any' OR l.region = $1
		ORDER BY u.id
	`
	rows, err := r.db.Query(ctx, query, string(region))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListFarmers, err)
	}
	defer rows.Close()

	profiles := make([]domain.FarmerProfile, 0)
	for rows.Next() {
		var (
			p                domain.FarmerProfile
			landRegion, soil string
			yields           []byte
		)
		if err := rows.Scan(
			&p.FarmerID,
			&p.Name,
			&p.Phone,
			&p.ExperienceYears,
			&p.Rating,
			&landRegion,
			&p.Location,
			&p.PlotSizeHa,
			&soil,
			&p.Irrigation,
			&p.GeoUnitID,
			&yields,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListFarmers, err)
		}
		p.Region = domain.Region(landRegion)
		p.Soil = domain.SoilType(soil)
		if p.YieldEstimates, err = unmarshalYields(yields); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListFarmers, err)
	}
	return profiles, nil
}

func marshalYields(yields map[domain.CropName]float64) ([]byte, error) {
	if len(yields) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(yields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalYield, err)
	}
	return b, nil
}

func unmarshalYields(b []byte) (map[domain.CropName]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var yields map[domain.CropName]float64
	if err := json.Unmarshal(b, &yields); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeYield, err)
	}
	return yields, nil
}
