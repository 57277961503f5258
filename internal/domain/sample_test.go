package domain

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleValue(t *testing.T) {
	tests := []struct {
		name     string
		expected float64
	}{
		{"koi_period", 10.5},
		{"koi_depth", 100},
		{"ra", 290.0},
		{"koi_period_err1", 10.0},
		{"koi_teq_err2", 500},
		{"st_temp", 500},
		{"koi_srad_err1", 1.0},
		{"pl_mass", 1.0},
		{"koi_impact_err1", 0.5},
		{"koi_duration_err1", 2.5},
		{"koi_depth_err1", 100},
		{"koi_steff_err1", 5500},
		{"st_logg", 4.5},
		{"koi_insol_err1", 1.0},
		{"koi_time0", 134.1},
		{"koi_fpflag_score", 0.9},
		{"ra_err", 290.0},
		{"dec_err", 45.0},
		{"koi_kepmag", SampleFallbackValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SampleValue(tt.name), tt.name)
	}
}

func TestSampleRules_FirstMatchWins(t *testing.T) {
	// "duration" also contains "ra"; the duration rule is earlier
	assert.Equal(t, 2.5, SampleValue("transit_duration"))
}

func TestFillSampleDefaults(t *testing.T) {
	catalog := mustCatalog(t, "koi_period", "koi_depth", "koi_kepmag", "koi_time0bk")

	first := FillSampleDefaults(catalog)
	second := FillSampleDefaults(catalog)

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]string{
		"koi_period":  "10.5",
		"koi_depth":   "100",
		"koi_kepmag":  "1",
		"koi_time0bk": "134.1",
	}, first)

	vector := NewFeatureVector(catalog)
	vector.Fill(first)

	_, err := vector.ToNumericVector()
	assert.NoError(t, err)
}

func TestBuildTemplateCSV(t *testing.T) {
	content, err := BuildTemplateCSV(mustCatalog(t, "koi_period", "koi_depth", "koi_prad"))
	require.NoError(t, err)
	assert.Equal(t, "koi_period,koi_depth,koi_prad\n0,0,0\n0,0,0\n", string(content))

	_, err = BuildTemplateCSV(FeatureCatalog{})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestPredictionsFileName(t *testing.T) {
	assert.Equal(t, "predictions_data.csv", PredictionsFileName("data.csv"))
}

func TestSelectFile(t *testing.T) {
	tests := []struct {
		name     string
		accepted bool
	}{
		{"data.csv", true},
		{".csv", true},
		{"report.txt", false},
		{"DATA.CSV", false},
		{"data.Csv", false},
		{"data.csv.bak", false},
		{"datacsv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := SelectFile(NewBytesHandle(tt.name, []byte("a\n1\n")))
			if tt.accepted {
				require.NoError(t, err)
				assert.Equal(t, tt.name, file.Name())
				return
			}

			var intakeErr *IntakeError
			require.True(t, errors.As(err, &intakeErr))
			assert.Equal(t, MessageWrongFileType, intakeErr.Message)
			assert.Equal(t, tt.name, intakeErr.FileName)
		})
	}
}

func TestBatchFile_Open(t *testing.T) {
	file, err := SelectFile(NewBytesHandle("data.csv", []byte("a\n1\n")))
	require.NoError(t, err)

	reader, err := file.Open()
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(content))
}

func TestNewPathHandle_UsesBaseName(t *testing.T) {
	assert.Equal(t, "data.csv", NewPathHandle("/tmp/uploads/data.csv").Name())
}

func TestParseSessionMode(t *testing.T) {
	for _, mode := range SessionModes() {
		parsed, err := ParseSessionMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseSessionMode("telepathy")
	assert.Error(t, err)
	assert.False(t, SessionMode(42).IsValid())
}
