package domain

import "time"

// LandParcel is a farmer's submitted plot. A newer parcel from the same farmer
// supersedes the older one; parcels are never deleted.
type LandParcel struct {
	ID             string               `json:"id"`
	FarmerID       string               `json:"farmer_id"`
	Region         Region               `json:"region"`
	Location       string               `json:"location"`
	PlotSizeHa     float64              `json:"plot_size_ha"`
	Soil           SoilType             `json:"soil_type"`
	Irrigation     bool                 `json:"irrigation_available"`
	GeoUnitID      *string              `json:"geo_unit_id"`
	YieldEstimates map[CropName]float64 `json:"yield_estimates,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Validate checks the fields a farmer supplies.
func (l LandParcel) Validate() error {
	if _, ok := ParseRegion(string(l.Region)); !ok {
		return ErrInvalidRegion
	}
	if l.Location == "" {
		return ErrInvalidLocation
	}
	if !positiveUpTo(l.PlotSizeHa, MaxPlotSizeHa) {
		return ErrInvalidPlotSize
	}
	if _, ok := ParseSoil(string(l.Soil)); !ok {
		return ErrInvalidSoil
	}
	for crop, y := range l.YieldEstimates {
		if _, ok := ParseCrop(string(crop)); !ok {
			return ErrInvalidCrop
		}
		if !(y >= 0 && y <= MaxYieldTons) {
			return ErrInvalidYield
		}
	}
	return nil
}
