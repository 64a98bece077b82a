package refdata

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/abeleng/shemeta/internal/domain"
)

var geoUnitColumns = map[string][]string{
	"id":       {"geo_unit_id", "kebele_id", "code"},
	"name":     {"kebele", "geo_unit"},
	"region":   {},
	"lat":      {"latitude"},
	"lon":      {"lng", "longitude"},
	"boundary": {"polygon"},
}

var featureColumns = map[string][]string{
	"geo_unit_id":   {"geo_unit", "kebele_id", "kebele"},
	"crop":          {"crop_name"},
	"distance":      {"env_distance"},
	"rainfall_mm":   {"rainfall", "rain_mm"},
	"temperature_c": {"temperature", "temp_c"},
	"ndvi_peak":     {"ndvi", "peak_ndvi"},
	"quality":       {"data_quality"},
}

var farmerColumns = map[string][]string{
	"id":               {"farmer_id", "user_id"},
	"name":             {"farmer_name", "full_name"},
	"phone":            {"phone_number", "contact"},
	"region":           {},
	"location":         {"kebele", "village"},
	"plot_size_ha":     {"plot_size", "hectares"},
	"soil":             {"soil_type"},
	"irrigation":       {"irrigation_available", "irrigated"},
	"experience_years": {"experience"},
	"rating":           {},
	"geo_unit_id":      {"geo_unit"},
	"yields":           {"yield_estimates"},
}

// FarmerRow is one roster entry: the account and its current parcel.
type FarmerRow struct {
	User domain.User
	Land domain.LandParcel
}

// ParseGeoUnits converts a table of units. Boundary is an optional
// "lat lon; lat lon; ..." ring.
func ParseGeoUnits(t *Table) ([]domain.GeoUnit, error) {
	col, err := t.columns(geoUnitColumns, "id", "name", "region", "lat", "lon")
	if err != nil {
		return nil, err
	}

	units := make([]domain.GeoUnit, 0, len(t.Rows))
	for i, rec := range t.Rows {
		region, ok := domain.ParseRegion(cell(rec, col["region"]))
		if !ok {
			return nil, t.rowError(i, "%s %q", ErrMsgUnknownRegion, cell(rec, col["region"]))
		}
		lat, err := parseFloat(cell(rec, col["lat"]))
		if err != nil {
			return nil, t.rowError(i, "lat: %s", ErrMsgBadNumber)
		}
		lon, err := parseFloat(cell(rec, col["lon"]))
		if err != nil {
			return nil, t.rowError(i, "lon: %s", ErrMsgBadNumber)
		}
		boundary, err := parseRing(cell(rec, col["boundary"]))
		if err != nil {
			return nil, t.rowError(i, "boundary: %v", err)
		}
		id := cell(rec, col["id"])
		if id == "" {
			return nil, t.rowError(i, "id is empty")
		}

		units = append(units, domain.GeoUnit{
			ID:       id,
			Name:     cell(rec, col["name"]),
			Region:   region,
			Centroid: domain.Point{Lat: lat, Lon: lon},
			Boundary: boundary,
		})
	}
	return units, nil
}

// ParseFeatures converts a table of feature records, grouped by geo unit id.
// Missing distance reads as 0 and missing quality as good.
func ParseFeatures(t *Table) (map[string][]domain.FeatureRecord, error) {
	col, err := t.columns(featureColumns, "geo_unit_id", "crop", "rainfall_mm", "ndvi_peak")
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.FeatureRecord)
	for i, rec := range t.Rows {
		unitID := cell(rec, col["geo_unit_id"])
		if unitID == "" {
			return nil, t.rowError(i, "geo_unit_id is empty")
		}
		crop, ok := domain.ParseCrop(cell(rec, col["crop"]))
		if !ok {
			return nil, t.rowError(i, "%s %q", ErrMsgUnknownCrop, cell(rec, col["crop"]))
		}
		quality := domain.QualityGood
		if raw := cell(rec, col["quality"]); raw != "" {
			if quality, ok = domain.ParseQuality(raw); !ok {
				return nil, t.rowError(i, "%s %q", ErrMsgUnknownQuality, raw)
			}
		}

		nums := make(map[string]float64, 4)
		for _, name := range []string{"distance", "rainfall_mm", "temperature_c", "ndvi_peak"} {
			raw := cell(rec, col[name])
			if raw == "" {
				continue
			}
			v, err := parseFloat(raw)
			if err != nil {
				return nil, t.rowError(i, "%s: %s", name, ErrMsgBadNumber)
			}
			nums[name] = v
		}

		out[unitID] = append(out[unitID], domain.FeatureRecord{
			GeoUnitID:    unitID,
			Crop:         crop,
			Distance:     nums["distance"],
			RainfallMM:   nums["rainfall_mm"],
			TemperatureC: nums["temperature_c"],
			NDVIPeak:     nums["ndvi_peak"],
			Quality:      quality,
		})
	}
	return out, nil
}

// ParseFarmers converts a farmer roster. Yields are "crop:tons; crop:tons".
func ParseFarmers(t *Table) ([]FarmerRow, error) {
	col, err := t.columns(farmerColumns, "name", "region", "location", "plot_size_ha", "soil")
	if err != nil {
		return nil, err
	}

	rows := make([]FarmerRow, 0, len(t.Rows))
	for i, rec := range t.Rows {
		region, ok := domain.ParseRegion(cell(rec, col["region"]))
		if !ok {
			return nil, t.rowError(i, "%s %q", ErrMsgUnknownRegion, cell(rec, col["region"]))
		}
		soil, ok := domain.ParseSoil(cell(rec, col["soil"]))
		if !ok {
			return nil, t.rowError(i, "%s %q", ErrMsgUnknownSoil, cell(rec, col["soil"]))
		}
		plot, err := parseFloat(cell(rec, col["plot_size_ha"]))
		if err != nil {
			return nil, t.rowError(i, "plot_size_ha: %s", ErrMsgBadNumber)
		}
		experience := 0
		if raw := cell(rec, col["experience_years"]); raw != "" {
			if experience, err = strconv.Atoi(raw); err != nil {
				return nil, t.rowError(i, "experience_years: %s", ErrMsgBadNumber)
			}
		}
		rating := 0.0
		if raw := cell(rec, col["rating"]); raw != "" {
			if rating, err = parseFloat(raw); err != nil {
				return nil, t.rowError(i, "rating: %s", ErrMsgBadNumber)
			}
		}
		yields, err := parseYields(cell(rec, col["yields"]))
		if err != nil {
			return nil, t.rowError(i, "yields: %v", err)
		}

		row := FarmerRow{
			User: domain.User{
				ID:              cell(rec, col["id"]),
				Name:            cell(rec, col["name"]),
				Phone:           cell(rec, col["phone"]),
				Role:            domain.RoleFarmer,
				Region:          region,
				ExperienceYears: experience,
				Rating:          rating,
			},
			Land: domain.LandParcel{
				Region:         region,
				Location:       cell(rec, col["location"]),
				PlotSizeHa:     plot,
				Soil:           soil,
				Irrigation:     parseBool(cell(rec, col["irrigation"])),
				YieldEstimates: yields,
			},
		}
		if unit := cell(rec, col["geo_unit_id"]); unit != "" {
			row.Land.GeoUnitID = &unit
		}
		if err := row.Land.Validate(); err != nil {
			return nil, t.rowError(i, "%v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// parseRing reads "lat lon; lat lon; ..." and also accepts "lat,lon" pairs.
func parseRing(s string) ([]domain.Point, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, PointSeparator)
	ring := make([]domain.Point, 0, len(parts))
	for _, p := range parts {
		fields := strings.Fields(strings.ReplaceAll(p, ",", " "))
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, errors.New(ErrMsgBadPoint)
		}
		lat, err1 := parseFloat(fields[0])
		lon, err2 := parseFloat(fields[1])
		if err1 != nil || err2 != nil {
			return nil, errors.New(ErrMsgBadPoint)
		}
		ring = append(ring, domain.Point{Lat: lat, Lon: lon})
	}
	return ring, nil
}

func parseYields(s string) (map[domain.CropName]float64, error) {
	if s == "" {
		return nil, nil
	}
	out := make(map[domain.CropName]float64)
	for _, pair := range strings.Split(s, YieldSeparator) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, YieldPairSep)
		if !ok {
			return nil, errors.New(ErrMsgBadYield)
		}
		crop, ok := domain.ParseCrop(name)
		if !ok {
			return nil, errors.New(ErrMsgUnknownCrop + " " + strconv.Quote(strings.TrimSpace(name)))
		}
		tons, err := parseFloat(value)
		if err != nil || tons < 0 {
			return nil, errors.New(ErrMsgBadYield)
		}
		out[crop] = tons
	}
	return out, nil
}

// sortedUnitIDs returns the keys of a feature map in order
func sortedUnitIDs(m map[string][]domain.FeatureRecord) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
