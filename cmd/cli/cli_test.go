package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoringService struct {
	mu           sync.Mutex
	lastFeatures map[string]float64
}

func (s *scoringService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":   "Exoplanet Prediction API",
			"endpoints": map[string]string{"/predict": "POST", "/features": "GET"},
			"usage":     "Send POST request to /predict",
		})
	})

	mux.HandleFunc("/features", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"features":    []string{"koi_period", "koi_depth"},
			"count":       2,
			"description": "Kepler features",
		})
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			KepID    *int64             `json:"kepid"`
			Features map[string]float64 `json:"features"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")

		if body.KepID != nil && *body.KepID == 404 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "KepID 404 not found"})
			return
		}

		s.mu.Lock()
		s.lastFeatures = body.Features
		s.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]float64{"probability_of_planet": 0.87})
	})

	mux.HandleFunc("/predict-csv", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		content, _ := io.ReadAll(file)

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("koi_period,koi_depth,probability_of_planet,prediction,verdict\n"))
		if len(content) > 0 {
			w.Write([]byte("1,2,0.87,1,PLANET\n"))
		}
	})

	return mux
}

func (s *scoringService) features() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastFeatures
}

func runCLI(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api-url", server.URL}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newServer(t *testing.T) (*scoringService, *httptest.Server) {
	t.Helper()

	service := &scoringService{}
	server := httptest.NewServer(service.handler())
	t.Cleanup(server.Close)

	return service, server
}

func TestFeaturesCommand(t *testing.T) {
	_, server := newServer(t)

	out, err := runCLI(t, server, "features", "--output", "json")
	require.NoError(t, err)

	var result featuresOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"koi_period", "koi_depth"}, result.Features)
	assert.Equal(t, 2, result.Count)

	out, err = runCLI(t, server, "features", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- koi_period")

	out, err = runCLI(t, server, "features")
	require.NoError(t, err)
	assert.Contains(t, out, "Features (2)")

	_, err = runCLI(t, server, "features", "--output", "xml")
	assert.Error(t, err)
}

func TestPredictKepIDCommand(t *testing.T) {
	_, server := newServer(t)

	out, err := runCLI(t, server, "predict", "kepid", "10797460")
	require.NoError(t, err)
	assert.Contains(t, out, "Likely a Planet")
	assert.Contains(t, out, "87.00%")

	out, err = runCLI(t, server, "predict", "kepid", "abc")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Please enter a valid KepID")

	out, err = runCLI(t, server, "predict", "kepid", "404")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "KepID 404 not found")
}

func TestPredictFeaturesCommand(t *testing.T) {
	service, server := newServer(t)

	_, err := runCLI(t, server, "predict", "features", "--sample", "--set", "koi_period=3.5")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"koi_period": 3.5, "koi_depth": 100}, service.features())

	vectorFile := filepath.Join(t.TempDir(), "vector.yaml")
	require.NoError(t, os.WriteFile(vectorFile, []byte("koi_period: 7\nkoi_depth: 12.5\n"), 0o600))

	_, err = runCLI(t, server, "predict", "features", "--file", vectorFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"koi_period": 7, "koi_depth": 12.5}, service.features())

	out, err := runCLI(t, server, "predict", "features", "--set", "koi_period=1")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "koi_depth")

	_, err = runCLI(t, server, "predict", "features", "--set", "koi_mass=1")
	assert.Error(t, err)
}

func TestPredictCSVCommand(t *testing.T) {
	_, server := newServer(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte("koi_period,koi_depth\n1,2\n"), 0o600))

	downloads := filepath.Join(dir, "downloads")
	out, err := runCLI(t, server, "--download-dir", downloads, "predict", "csv", input, "--xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "Predictions downloaded")

	content, err := os.ReadFile(filepath.Join(downloads, "predictions_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "PLANET")
	assert.FileExists(t, filepath.Join(downloads, "predictions_data.xlsx"))

	out, err = runCLI(t, server, "predict", "csv", filepath.Join(dir, "data.txt"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Please upload a CSV file")
}

func TestTemplateCommand(t *testing.T) {
	_, server := newServer(t)
	dir := t.TempDir()

	out, err := runCLI(t, server, "--download-dir", dir, "template")
	require.NoError(t, err)
	assert.Contains(t, out, "sample_exoplanet_data.csv")

	content, err := os.ReadFile(filepath.Join(dir, "sample_exoplanet_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "koi_period,koi_depth\n0,0\n0,0\n", string(content))
}

func TestStatusCommand(t *testing.T) {
	_, server := newServer(t)

	out, err := runCLI(t, server, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Exoplanet Prediction API")

	server.Close()
	out, err = runCLI(t, server, "status", "--timeout", "1s")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Could not reach the prediction service")
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"koi_period=3.5", " koi_depth =", "a=b=c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"koi_period": "3.5", "koi_depth": "", "a": "b=c"}, values)

	_, err = parseAssignments([]string{"koi_period"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=3"})
	assert.Error(t, err)
}

func TestReadVectorFile(t *testing.T) {
	dir := t.TempDir()

	jsonFile := filepath.Join(dir, "vector.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"koi_period": 1.5, "koi_depth": "20", "koi_prad": null}`), 0o600))

	values, err := readVectorFile(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"koi_period": "1.5", "koi_depth": "20", "koi_prad": ""}, values)

	nested := filepath.Join(dir, "nested.yaml")
	require.NoError(t, os.WriteFile(nested, []byte("koi_period:\n  value: 1\n"), 0o600))

	_, err = readVectorFile(nested)
	assert.Error(t, err)
}
