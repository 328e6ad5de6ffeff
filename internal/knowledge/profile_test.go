package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mail-assistant/internal/common/errors"
)

func validProfileJSON() string {
	return `{
		"name": "Hautzentrum Beispielstadt",
		"location": "Beispielstadt",
		"contact": {"phone": "+49 30 1234567", "website": "https://example-derm.de"},
		"specializations": ["dermatology", "allergology"],
		"services": {
			"general_dermatology": "Skin checks and general consultations",
			"skin_cancer": {"screening": "Full-body screening", "surgery": "Excision of lesions"},
			"aesthetic": "Laser and filler treatments",
			"specialized": "Psoriasis and eczema clinics",
			"allergology": "Allergy testing and desensitization"
		},
		"staff": [
			{"name": "Dr. Anna Weber", "specialties": ["skin cancer", "surgery"]},
			{"name": "Dr. Jonas Keller", "specialties": ["allergology"]}
		],
		"policies": {"cancellation_policy": "24 hours notice required", "payment_methods": "cash, card, insurance"},
		"additional": "Wheelchair accessible."
	}`
}

func TestParse_ValidProfile(t *testing.T) {
	profile, err := Parse([]byte(validProfileJSON()))
	require.NoError(t, err)

	assert.Equal(t, "Hautzentrum Beispielstadt", profile.Name)
	assert.Equal(t, "+49 30 1234567", profile.Contact.Phone)
	assert.Len(t, profile.Staff, 2)
	assert.Equal(t, []string{"skin cancer", "surgery"}, profile.Staff[0].Specialties)
	assert.Equal(t, "24 hours notice required", profile.Policies["cancellation_policy"])
}

func TestParse_ServiceCategoryShapes(t *testing.T) {
	profile, err := Parse([]byte(validProfileJSON()))
	require.NoError(t, err)

	flat := profile.Services["general_dermatology"]
	assert.Equal(t, "Skin checks and general consultations", flat.String())
	assert.Nil(t, flat.Items)

	nested := profile.Services["skin_cancer"]
	assert.Empty(t, nested.Description)
	// Sorted key order keeps rendering deterministic
	assert.Equal(t, "screening: Full-body screening; surgery: Excision of lesions", nested.String())
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "missing required name",
			json: `{"contact": {"phone": "1", "website": "w"}, "specializations": [],
				"services": {"general_dermatology": "x", "skin_cancer": "x", "aesthetic": "x",
				"specialized": "x", "allergology": "x"},
				"staff": [], "policies": {}, "additional": ""}`,
		},
		{
			name: "missing service category",
			json: `{"name": "n", "contact": {"phone": "1", "website": "w"}, "specializations": [],
				"services": {"general_dermatology": "x"},
				"staff": [], "policies": {}, "additional": ""}`,
		},
		{
			name: "staff entry without specialties",
			json: `{"name": "n", "contact": {"phone": "1", "website": "w"}, "specializations": [],
				"services": {"general_dermatology": "x", "skin_cancer": "x", "aesthetic": "x",
				"specialized": "x", "allergology": "x"},
				"staff": [{"name": "Dr. X"}], "policies": {}, "additional": ""}`,
		},
		{
			name: "not json at all",
			json: `not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			require.Error(t, err)

			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(validProfileJSON()), 0o644))

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hautzentrum Beispielstadt", profile.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
}

func TestServiceCategoryNames_Sorted(t *testing.T) {
	profile, err := Parse([]byte(validProfileJSON()))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"aesthetic", "allergology", "general_dermatology", "skin_cancer", "specialized"},
		profile.ServiceCategoryNames())
}
