package domain

import "time"

// CropRequirement is a buyer's posted demand. It is immutable once posted.
type CropRequirement struct {
	ID           string    `json:"id"`
	BuyerID      string    `json:"buyer_id"`
	Crop         CropName  `json:"crop"`
	QuantityTons float64   `json:"quantity_tons"`
	PricePerKG   float64   `json:"price_per_kg"`
	HarvestDate  time.Time `json:"harvest_date"`
	Region       Region    `json:"region"`
	QualityNotes string    `json:"quality_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the fields a buyer supplies.
func (r CropRequirement) Validate() error {
	if _, ok := ParseCrop(string(r.Crop)); !ok {
		return ErrInvalidCrop
	}
	if !positiveUpTo(r.QuantityTons, MaxQuantityTons) {
		return ErrInvalidQuantity
	}
	if !positiveUpTo(r.PricePerKG, MaxPricePerKG) {
		return ErrInvalidPrice
	}
	if _, ok := ParseRequirementRegion(string(r.Region)); !ok {
		return ErrInvalidRegion
	}
	return nil
}

// HarvestDeadline is the last instant of the requested harvest day (UTC).
func (r CropRequirement) HarvestDeadline() time.Time {
	y, m, d := r.HarvestDate.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
}

// IsOpen reports whether the requirement still accepts offers at t.
func (r CropRequirement) IsOpen(t time.Time) bool {
	return !t.After(r.HarvestDeadline())
}

// QuantityKG is the requested quantity in kilograms.
func (r CropRequirement) QuantityKG() float64 {
	return r.QuantityTons * KGPerTon
}
