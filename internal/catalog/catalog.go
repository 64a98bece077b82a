// Package catalog holds the agronomic reference profile of every tradable crop.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/validation"
)

//go:embed crops.yaml
var defaultCatalog []byte

// Range is an agronomic tolerance interval with an optimum.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Opt float64 `yaml:"opt" json:"opt"`
	Max float64 `yaml:"max" json:"max"`
}

// Span is the width of the range, never zero.
func (r Range) Span() float64 {
	return max(1e-6, r.Max-r.Min)
}

func (r Range) valid() bool {
	return r.Min <= r.Opt && r.Opt <= r.Max
}

// CropProfile is the agronomic profile of one crop.
type CropProfile struct {
	Crop                domain.CropName      `yaml:"-" json:"crop"`
	DisplayName         string               `yaml:"-" json:"display_name"`
	Rainfall            Range                `yaml:"rainfall" json:"rainfall_mm"`
	Temperature         Range                `yaml:"temperature" json:"temperature_c"`
	YieldTonsPerHa      float64              `yaml:"yield_t_ha" json:"yield_t_ha"`
	Harvest             domain.HarvestWindow `yaml:"harvest" json:"harvest"`
	IrrigationDependent bool                 `yaml:"irrigation_dependent" json:"irrigation_dependent"`
}

type file struct {
	Crops map[string]CropProfile `yaml:"crops"`
}

// Catalog is an immutable set of crop profiles.
type Catalog struct {
	profiles map[domain.CropName]CropProfile
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded crop catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML or JSON file and checks it against the
// catalog schema before parsing. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadCatalog, err)
	}
	if err := validation.NewSchemaValidator().ValidateBytes(data, validation.SchemaCropCatalog); err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseCatalog, err)
	}

	title := cases.Title(language.English)
	profiles := make(map[domain.CropName]CropProfile, len(f.Crops))
	for name, p := range f.Crops {
		crop, ok := domain.ParseCrop(name)
		if !ok {
			return nil, fmt.Errorf("%s: %q", ErrMsgUnknownCrop, name)
		}
		if !p.Rainfall.valid() || !p.Temperature.valid() {
			return nil, fmt.Errorf("%s: %s", ErrMsgInvalidRange, name)
		}
		if p.YieldTonsPerHa <= 0 {
			return nil, fmt.Errorf("%s: %s", ErrMsgInvalidYield, name)
		}
		if !validDay(p.Harvest.StartDay) || !validDay(p.Harvest.EndDay) {
			return nil, fmt.Errorf("%s: %s", ErrMsgInvalidWindow, name)
		}
		p.Crop = crop
		p.DisplayName = title.String(string(crop))
		profiles[crop] = p
	}
	return &Catalog{profiles: profiles}, nil
}

func validDay(d int) bool {
	return d >= 1 && d <= 365
}

// Lookup returns the profile for crop.
func (c *Catalog) Lookup(crop domain.CropName) (CropProfile, bool) {
	p, ok := c.profiles[crop]
	return p, ok
}

// Crops lists the catalogued crops in name order.
func (c *Catalog) Crops() []domain.CropName {
	out := make([]domain.CropName, 0, len(c.profiles))
	for crop := range c.profiles {
		out = append(out, crop)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DisplayName returns the title-cased label of a crop, catalogued or not.
func DisplayName(crop domain.CropName) string {
	return cases.Title(language.English).String(string(crop))
}
