package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/repository"
)

var _ repository.GeoReference = (*GeoRepository)(nil)

// GeoRepository implements repository.GeoReference
type GeoRepository struct {
	db *pgxpool.Pool
}

// NewGeoRepository creates a new geo reference repository
func NewGeoRepository(db *pgxpool.Pool) *GeoRepository {
	return &GeoRepository{db: db}
}

// FeaturesByGeoUnit returns the feature records of one geo unit, by crop
func (r *GeoRepository) FeaturesByGeoUnit(ctx context.Context, geoUnitID string) ([]domain.FeatureRecord, error) {
	query := `
		SELECT geo_unit_id, crop, distance, rainfall_mm, temperature_c, ndvi_peak, quality
		FROM feature_records
		WHERE geo_unit_id = $1
		ORDER BY crop
	`
	rows, err := r.db.Query(ctx, query, geoUnitID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFeatures, err)
	}
	defer rows.Close()

	out := make([]domain.FeatureRecord, 0)
	for rows.Next() {
		var (
			rec           domain.FeatureRecord
			crop, quality string
		)
		if err := rows.Scan(&rec.GeoUnitID, &crop, &rec.Distance, &rec.RainfallMM, &rec.TemperatureC, &rec.NDVIPeak, &quality); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFeatures, err)
		}
		rec.Crop = domain.CropName(crop)
		rec.Quality = domain.Quality(quality)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFeatures, err)
	}
	return out, nil
}

// ListGeoUnits returns every geo unit ordered by id
func (r *GeoRepository) ListGeoUnits(ctx context.Context) ([]domain.GeoUnit, error) {
	query := `SELECT id, name, region, centroid_lat, centroid_lon, boundary FROM geo_units ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGeoUnits, err)
	}
	defer rows.Close()

	out := make([]domain.GeoUnit, 0)
	for rows.Next() {
		var (
			u        domain.GeoUnit
			region   string
			boundary []byte
		)
		if err := rows.Scan(&u.ID, &u.Name, &region, &u.Centroid.Lat, &u.Centroid.Lon, &boundary); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGeoUnits, err)
		}
		u.Region = domain.Region(region)
		if len(boundary) > 0 {
			if err := json.Unmarshal(boundary, &u.Boundary); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeBoundary, err)
			}
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGeoUnits, err)
	}
	return out, nil
}

// FeaturedGeoUnitIDs returns the ids of geo units that carry at least one record
func (r *GeoRepository) FeaturedGeoUnitIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT geo_unit_id FROM feature_records ORDER BY geo_unit_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGeoUnits, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListGeoUnits, err)
	}
	return ids, nil
}

// UpsertGeoUnits inserts or refreshes geo units in one batch
func (r *GeoRepository) UpsertGeoUnits(ctx context.Context, units []domain.GeoUnit) error {
	if len(units) == 0 {
		return nil
	}
	query := `
		INSERT INTO geo_units (id, name, region, centroid_lat, centroid_lon, boundary)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    region = EXCLUDED.region,
		    centroid_lat = EXCLUDED.centroid_lat,
		    centroid_lon = EXCLUDED.centroid_lon,
		    boundary = EXCLUDED.boundary
	`
	batch := &pgx.Batch{}
	for _, u := range units {
		var boundary []byte
		if len(u.Boundary) > 0 {
			b, err := json.Marshal(u.Boundary)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalBoundary, err)
			}
			boundary = b
		}
		batch.Queue(query, u.ID, u.Name, string(u.Region), u.Centroid.Lat, u.Centroid.Lon, boundary)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertGeoUnits, err)
	}
	return nil
}

// ReplaceFeatures swaps a geo unit's records atomically
func (r *GeoRepository) ReplaceFeatures(ctx context.Context, geoUnitID string, records []domain.FeatureRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM feature_records WHERE geo_unit_id = $1`, geoUnitID); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToReplaceFeatures, err)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			geoUnitID,
			string(rec.Crop),
			rec.Distance,
			rec.RainfallMM,
			rec.TemperatureC,
			rec.NDVIPeak,
			string(rec.Quality),
		})
	}
	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"feature_records"},
			[]string{"geo_unit_id", "crop", "distance", "rainfall_mm", "temperature_c", "ndvi_peak", "quality"},
			pgx.CopyFromRows(rows),
		)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrGeoUnitNotFound, geoUnitID, ErrMsgUnknownReference)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReplaceFeatures, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}
