package domain

import (
	"strings"
	"time"
)

// CropName identifies a crop. Names are lower-case.
type CropName string

const (
	CropTeff      CropName = "teff"
	CropMaize     CropName = "maize"
	CropSorghum   CropName = "sorghum"
	CropRice      CropName = "rice"
	CropBean      CropName = "bean"
	CropLentil    CropName = "lentil"
	CropSafflower CropName = "safflower"
	CropSesame    CropName = "sesame"
	CropSoybean   CropName = "soybean"
	CropCarrot    CropName = "carrot"
	CropGarlic    CropName = "garlic"
	CropOnion     CropName = "onion"
	CropTomato    CropName = "tomato"
	CropMandarin  CropName = "mandarin"
	CropMango     CropName = "mango"
	CropCoffee    CropName = "coffee"
	CropAvocado   CropName = "avocado"
	CropBanana    CropName = "banana"
)

var crops = []CropName{
	CropTeff, CropMaize, CropSorghum, CropRice, CropBean, CropLentil, CropSafflower,
	CropSesame, CropSoybean, CropCarrot, CropGarlic, CropOnion, CropTomato, CropMandarin,
	CropMango, CropCoffee, CropAvocado, CropBanana,
}

// Crops returns every tradable crop.
func Crops() []CropName {
	out := make([]CropName, len(crops))
	copy(out, crops)
	return out
}

// ParseCrop normalizes s and reports whether it is a tradable crop.
func ParseCrop(s string) (CropName, bool) {
	c := CropName(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range crops {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// SoilType is the dominant soil class of a parcel.
type SoilType string

const (
	SoilVertisol SoilType = "vertisol"
	SoilCambisol SoilType = "cambisol"
	SoilLuvisol  SoilType = "luvisol"
	SoilNitisol  SoilType = "nitisol"
	SoilAndosol  SoilType = "andosol"
	SoilFluvisol SoilType = "fluvisol"
)

// ParseSoil normalizes s and reports whether it is a known soil type.
func ParseSoil(s string) (SoilType, bool) {
	switch t := SoilType(strings.ToLower(strings.TrimSpace(s))); t {
	case SoilVertisol, SoilCambisol, SoilLuvisol, SoilNitisol, SoilAndosol, SoilFluvisol:
		return t, true
	}
	return "", false
}

// Quality is the data-quality flag carried by a feature record.
type Quality string

const (
	QualityGood    Quality = "good"
	QualityPartial Quality = "partial"
	QualityPoor    Quality = "poor"
)

// ParseQuality normalizes s and reports whether it is a known quality flag.
func ParseQuality(s string) (Quality, bool) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityGood, QualityPartial, QualityPoor:
		return q, true
	}
	return "", false
}

// FeatureRecord holds the agro-climatic signals for one crop at one geo unit.
type FeatureRecord struct {
	GeoUnitID    string   `json:"geo_unit_id"`
	Crop         CropName `json:"crop"`
	Distance     float64  `json:"distance"`
	RainfallMM   float64  `json:"rainfall_mm"`
	TemperatureC float64  `json:"temperature_c"`
	NDVIPeak     float64  `json:"ndvi_peak"`
	Quality      Quality  `json:"quality"`
}

// GeoUnit is a reference geographic unit (kebele).
type GeoUnit struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Region   Region  `json:"region"`
	Centroid Point   `json:"centroid"`
	Boundary []Point `json:"boundary,omitempty"`
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ScoredCrop is one entry of a ranked recommendation list.
type ScoredCrop struct {
	Crop           CropName `json:"crop"`
	DisplayName    string   `json:"display_name"`
	Score          float64  `json:"score"`
	Percentage     float64  `json:"percentage"`
	NDVIPeak       float64  `json:"ndvi_peak"`
	Distance       float64  `json:"distance"`
	RainfallMM     float64  `json:"rainfall_mm"`
	Quality        Quality  `json:"quality"`
	FormulaVersion string   `json:"formula_version"`
}

// HarvestWindow is a day-of-year interval. Start may exceed End when the window
// crosses the new year.
type HarvestWindow struct {
	StartDay int `json:"start_day" yaml:"start_day"`
	EndDay   int `json:"end_day" yaml:"end_day"`
}

// DaysFrom returns the circular distance in days from t to the window, zero when inside.
func (w HarvestWindow) DaysFrom(t time.Time) int {
	const yearDays = 365
	day := t.YearDay()
	if day > yearDays {
		day = yearDays
	}
	if w.contains(day) {
		return 0
	}
	return min(circularGap(day, w.StartDay, yearDays), circularGap(day, w.EndDay, yearDays))
}

func (w HarvestWindow) contains(day int) bool {
	if w.StartDay <= w.EndDay {
		return day >= w.StartDay && day <= w.EndDay
	}
	return day >= w.StartDay || day <= w.EndDay
}

func circularGap(a, b, period int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return min(d, period-d)
}
