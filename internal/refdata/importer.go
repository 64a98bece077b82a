package refdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/repository"
)

// ResolveFunc maps a parcel location to a geo unit id
type ResolveFunc func(location string, region domain.Region) (string, error)

// Summary counts what an import stored
type Summary struct {
	GeoUnits int
	Features int
	Farmers  int
}

// Importer writes reference files into the repositories.
type Importer struct {
	geo   repository.GeoReference
	users repository.User
	lands repository.Land
	now   func() time.Time
}

// NewImporter creates an importer. users and lands are only needed for farmer rosters.
func NewImporter(geo repository.GeoReference, users repository.User, lands repository.Land) *Importer {
	return &Importer{geo: geo, users: users, lands: lands, now: time.Now}
}

// ImportGeoUnits upserts every unit in path and returns how many were read.
func (im *Importer) ImportGeoUnits(ctx context.Context, path string) (int, error) {
	t, err := ReadTable(path)
	if err != nil {
		return 0, err
	}
	units, err := ParseGeoUnits(t)
	if err != nil {
		return 0, err
	}
	if err := im.geo.UpsertGeoUnits(ctx, units); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgStoreGeoUnits, err)
	}
	logger.FromContext(ctx).Info(LogMsgImported, "kind", BaseGeoUnits, "path", path, "count", len(units))
	return len(units), nil
}

// ImportFeatures replaces the feature records of every unit named in path and
// returns the record count.
func (im *Importer) ImportFeatures(ctx context.Context, path string) (int, error) {
	t, err := ReadTable(path)
	if err != nil {
		return 0, err
	}
	byUnit, err := ParseFeatures(t)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, unitID := range sortedUnitIDs(byUnit) {
		records := byUnit[unitID]
		if err := im.geo.ReplaceFeatures(ctx, unitID, records); err != nil {
			return total, fmt.Errorf("%s %s: %w", ErrMsgStoreFeatures, unitID, err)
		}
		total += len(records)
	}
	logger.FromContext(ctx).Info(LogMsgImported, "kind", BaseFeatures, "path", path, "count", total, "geo_units", len(byUnit))
	return total, nil
}

// ImportFarmers creates an account and a parcel per roster row. Rows whose id
// already exists are skipped, so a roster can be re-imported. resolve, when
// set, fills the geo unit of parcels that do not name one.
func (im *Importer) ImportFarmers(ctx context.Context, path string, resolve ResolveFunc) (int, error) {
	t, err := ReadTable(path)
	if err != nil {
		return 0, err
	}
	rows, err := ParseFarmers(t)
	if err != nil {
		return 0, err
	}

	log := logger.FromContext(ctx)
	created := 0
	for _, row := range rows {
		if row.User.ID != "" {
			_, err := im.users.GetUserByID(ctx, row.User.ID)
			if err == nil {
				log.Debug(LogMsgFarmerExists, "farmer_id", row.User.ID)
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return created, fmt.Errorf("%s %s: %w", ErrMsgStoreFarmer, row.User.ID, err)
			}
		} else {
			row.User.ID = uuid.NewString()
		}

		now := im.now().UTC()
		row.User.CreatedAt = now
		row.Land.ID = uuid.NewString()
		row.Land.FarmerID = row.User.ID
		row.Land.CreatedAt = now
		if row.Land.GeoUnitID == nil && resolve != nil {
			if unitID, err := resolve(row.Land.Location, row.Land.Region); err == nil {
				row.Land.GeoUnitID = &unitID
			} else {
				log.Warn(LogMsgUnresolved, "farmer_id", row.User.ID, "location", row.Land.Location, "error", err)
			}
		}

		if err := im.users.CreateUser(ctx, &row.User); err != nil {
			return created, fmt.Errorf("%s %s: %w", ErrMsgStoreFarmer, row.User.ID, err)
		}
		if err := im.lands.CreateLand(ctx, &row.Land); err != nil {
			return created, fmt.Errorf("%s %s: %w", ErrMsgStoreFarmer, row.User.ID, err)
		}
		created++
	}
	log.Info(LogMsgImported, "kind", BaseFarmers, "path", path, "count", created, "rows", len(rows))
	return created, nil
}

// LoadReference imports the geo units and feature files found in dir.
// Missing files are skipped.
func (im *Importer) LoadReference(ctx context.Context, dir string) (Summary, error) {
	var sum Summary
	if path, ok := FindFile(dir, BaseGeoUnits); ok {
		n, err := im.ImportGeoUnits(ctx, path)
		if err != nil {
			return sum, err
		}
		sum.GeoUnits = n
	} else {
		logger.FromContext(ctx).Info(LogMsgFileSkipped, "dir", dir, "kind", BaseGeoUnits)
	}

	if path, ok := FindFile(dir, BaseFeatures); ok {
		n, err := im.ImportFeatures(ctx, path)
		if err != nil {
			return sum, err
		}
		sum.Features = n
	} else {
		logger.FromContext(ctx).Info(LogMsgFileSkipped, "dir", dir, "kind", BaseFeatures)
	}
	return sum, nil
}

// LoadFarmers imports the farmer roster in dir, if there is one.
func (im *Importer) LoadFarmers(ctx context.Context, dir string, resolve ResolveFunc) (int, error) {
	path, ok := FindFile(dir, BaseFarmers)
	if !ok {
		logger.FromContext(ctx).Info(LogMsgFileSkipped, "dir", dir, "kind", BaseFarmers)
		return 0, nil
	}
	return im.ImportFarmers(ctx, path, resolve)
}

// FindFile returns dir/base with the first supported extension that exists.
func FindFile(dir, base string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
