package geo

import (
	"fmt"
	"sort"

	"github.com/abeleng/shemeta/internal/domain"
)

// Dataset is the static reference set of geo units and which of them carry feature data.
type Dataset struct {
	units    map[string]domain.GeoUnit
	byRegion map[domain.Region][]domain.GeoUnit
	featured map[string]bool
}

// NewDataset indexes units. featured lists the unit ids that have at least one feature record.
func NewDataset(units []domain.GeoUnit, featured []string) (*Dataset, error) {
	ds := &Dataset{
		units:    make(map[string]domain.GeoUnit, len(units)),
		byRegion: make(map[domain.Region][]domain.GeoUnit),
		featured: make(map[string]bool, len(featured)),
	}
	for _, u := range units {
		if _, dup := ds.units[u.ID]; dup {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicateUnit, u.ID)
		}
		if _, ok := domain.ParseRegion(string(u.Region)); !ok {
			return nil, fmt.Errorf("%s: %s (%q)", ErrMsgUnitRegion, u.ID, u.Region)
		}
		ds.units[u.ID] = u
		ds.byRegion[u.Region] = append(ds.byRegion[u.Region], u)
	}
	for _, list := range ds.byRegion {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	for _, id := range featured {
		ds.featured[id] = true
	}
	return ds, nil
}

// Unit returns the unit with the given id.
func (d *Dataset) Unit(id string) (domain.GeoUnit, bool) {
	u, ok := d.units[id]
	return u, ok
}

// Units returns the units of a region ordered by id.
func (d *Dataset) Units(region domain.Region) []domain.GeoUnit {
	return d.byRegion[region]
}

// HasFeatures reports whether feature records exist for the unit.
func (d *Dataset) HasFeatures(id string) bool {
	return d.featured[id]
}

// Len is the number of units.
func (d *Dataset) Len() int {
	return len(d.units)
}
