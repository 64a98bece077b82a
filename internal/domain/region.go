package domain

import "strings"

// Region is an administrative region. RegionAny is only valid on requirements.
type Region string

const (
	RegionAddisAbaba  Region = "addis-ababa"
	RegionOromia      Region = "oromia"
	RegionAmhara      Region = "amhara"
	RegionTigray      Region = "tigray"
	RegionSNNP        Region = "snnp"
	RegionAfar        Region = "afar"
	RegionSomali      Region = "somali"
	RegionBenishangul Region = "benishangul"
	RegionGambela     Region = "gambela"
	RegionHarari      Region = "harari"
	RegionDireDawa    Region = "dire-dawa"

	RegionAny Region = "any"
)

var regions = []Region{
	RegionAddisAbaba, RegionOromia, RegionAmhara, RegionTigray, RegionSNNP, RegionAfar,
	RegionSomali, RegionBenishangul, RegionGambela, RegionHarari, RegionDireDawa,
}

// Regions returns the concrete regions in display order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// ParseRegion normalizes s and reports whether it names a concrete region.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range regions {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// ParseRequirementRegion accepts a concrete region or the "any" wildcard.
func ParseRequirementRegion(s string) (Region, bool) {
	if strings.EqualFold(strings.TrimSpace(s), string(RegionAny)) {
		return RegionAny, true
	}
	return ParseRegion(s)
}

// Accepts reports whether a requirement region admits a candidate in region r.
func (rg Region) Accepts(r Region) bool {
	return rg == RegionAny || rg == r
}
