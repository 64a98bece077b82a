package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/domain"
)

func TestDefault_CoversEveryCrop(t *testing.T) {
	c := Default()
	for _, crop := range domain.Crops() {
		p, ok := c.Lookup(crop)
		require.True(t, ok, "missing profile for %s", crop)
		assert.True(t, p.Rainfall.Min <= p.Rainfall.Opt && p.Rainfall.Opt <= p.Rainfall.Max)
		assert.Positive(t, p.YieldTonsPerHa)
		assert.NotEmpty(t, p.DisplayName)
	}
	assert.Len(t, c.Crops(), len(domain.Crops()))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: `
crops:
  teff:
    rainfall: {min: 450, opt: 800, max: 1200}
    temperature: {min: 10, opt: 20, max: 27}
    yield_t_ha: 1.8
    harvest: {start_day: 305, end_day: 365}
`,
		},
		{
			name: "unknown crop",
			yaml: `
crops:
  quinoa:
    rainfall: {min: 1, opt: 2, max: 3}
    temperature: {min: 1, opt: 2, max: 3}
    yield_t_ha: 1
    harvest: {start_day: 1, end_day: 2}
`,
			wantErr: ErrMsgUnknownCrop,
		},
		{
			name: "inverted range",
			yaml: `
crops:
  teff:
    rainfall: {min: 900, opt: 800, max: 1200}
    temperature: {min: 10, opt: 20, max: 27}
    yield_t_ha: 1.8
    harvest: {start_day: 305, end_day: 365}
`,
			wantErr: ErrMsgInvalidRange,
		},
		{
			name: "bad harvest day",
			yaml: `
crops:
  teff:
    rainfall: {min: 450, opt: 800, max: 1200}
    temperature: {min: 10, opt: 20, max: 27}
    yield_t_ha: 1.8
    harvest: {start_day: 0, end_day: 400}
`,
			wantErr: ErrMsgInvalidWindow,
		},
		{
			name:    "not yaml",
			yaml:    "crops: [",
			wantErr: ErrMsgParseCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			p, ok := c.Lookup(domain.CropTeff)
			require.True(t, ok)
			assert.Equal(t, "Teff", p.DisplayName)
			assert.Equal(t, 800.0, p.Rainfall.Opt)
		})
	}
}

func TestLoad_EmptyPathUsesEmbedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	_, ok := c.Lookup(domain.CropMaize)
	assert.True(t, ok)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "crops.yaml")
	require.NoError(t, os.WriteFile(good, []byte("crops:\n  bean:\n    rainfall: {min: 300, opt: 500, max: 800}\n    temperature: {min: 15, opt: 22, max: 28}\n    yield_t_ha: 1.6\n    harvest: {start_day: 260, end_day: 320}\n"), 0o644))

	c, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, []domain.CropName{domain.CropBean}, c.Crops())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("crops:\n  bean:\n    yield_t_ha: 1.6\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, ErrMsgReadCatalog)
}
