package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeleng/shemeta/internal/domain"
)

const validCatalog = `
crops:
  teff:
    rainfall: {min: 450, opt: 800, max: 1200}
    temperature: {min: 10, opt: 20, max: 27}
    yield_t_ha: 1.8
    harvest: {start_day: 305, end_day: 365}
`

func TestValidateBytes_CropCatalog(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantErr  bool
		errorMsg string
	}{
		{name: "valid yaml", data: validCatalog},
		{
			name: "valid json",
			data: `{"crops": {"maize": {"rainfall": {"min": 1, "opt": 2, "max": 3},
				"temperature": {"min": 1, "opt": 2, "max": 3}, "yield_t_ha": 4,
				"harvest": {"start_day": 1, "end_day": 2}, "irrigation_dependent": true}}}`,
		},
		{
			name:     "missing harvest",
			data:     "crops:\n  teff:\n    rainfall: {min: 1, opt: 2, max: 3}\n    temperature: {min: 1, opt: 2, max: 3}\n    yield_t_ha: 1\n",
			wantErr:  true,
			errorMsg: "/crops/teff",
		},
		{
			name:     "day out of range",
			data:     "crops:\n  teff:\n    rainfall: {min: 1, opt: 2, max: 3}\n    temperature: {min: 1, opt: 2, max: 3}\n    yield_t_ha: 1\n    harvest: {start_day: 0, end_day: 400}\n",
			wantErr:  true,
			errorMsg: "/crops/teff/harvest/start_day",
		},
		{
			name:     "zero yield",
			data:     "crops:\n  teff:\n    rainfall: {min: 1, opt: 2, max: 3}\n    temperature: {min: 1, opt: 2, max: 3}\n    yield_t_ha: 0\n    harvest: {start_day: 1, end_day: 2}\n",
			wantErr:  true,
			errorMsg: "exclusiveMinimum",
		},
		{
			name:     "unknown field",
			data:     validCatalog + "version: 2\n",
			wantErr:  true,
			errorMsg: "additionalProperties",
		},
		{
			name:    "not a document",
			data:    "crops: [unterminated",
			wantErr: true,
		},
	}

	v := NewSchemaValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.data), SchemaCropCatalog)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o644))

	v := NewSchemaValidator()
	assert.NoError(t, v.ValidateFile(path, SchemaCropCatalog))

	err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.yaml"), SchemaCropCatalog)
	assert.Error(t, err)
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := NewSchemaValidator().ValidateBytes([]byte(validCatalog), "nope.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownSchema)
}
