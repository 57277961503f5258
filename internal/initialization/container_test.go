package initialization

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/exopredict/exopredict/internal/config"
	"github.com/exopredict/exopredict/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/features", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"features": []string{"koi_period", "koi_depth"},
			"count":    2,
		})
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{"probability_of_planet": 0.91})
	})
	mux.HandleFunc("/predict-csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("koi_period,koi_depth,probability_of_planet,prediction,verdict\n1,2,0.91,1,PLANET\n"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL, dir string) config.Config {
	return config.Config{
		APIBaseURL:  baseURL,
		Timeout:     5 * time.Second,
		RetryDelay:  time.Millisecond,
		DownloadDir: dir,
	}
}

func TestContainer_Session(t *testing.T) {
	server := newScoringServer(t)
	dir := t.TempDir()

	container := NewContainer(testConfig(server.URL, dir))
	assert.Equal(t, server.URL, container.GetBaseURL())

	s := container.NewSession()
	defer s.Close()

	catalog, err := s.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"koi_period", "koi_depth"}, catalog.Names())

	submission, err := s.SubmitByIdentifier(context.Background(), "10797460")
	require.NoError(t, err)
	outcome, err := submission.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSucceeded, outcome.State.Status)
	assert.Equal(t, "91.00%", outcome.State.Result.Display())

	require.NoError(t, s.SetMode(domain.ModeByBatchFile))
	_, err = s.SelectFile(domain.NewBytesHandle("data.csv", []byte("koi_period,koi_depth\n1,2\n")))
	require.NoError(t, err)

	submission, err = s.Submit(context.Background())
	require.NoError(t, err)
	outcome, err = submission.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSucceeded, outcome.State.Status, outcome.State.Message)

	content, err := os.ReadFile(filepath.Join(dir, "predictions_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "PLANET")
}

func TestContainer_ArtifactSinkXLSX(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig("http://localhost:8000", dir)
	cfg.XLSX = true
	container := NewContainer(cfg)

	_, err := container.GetArtifactSink().Deliver(context.Background(), domain.Artifact{
		FileName: domain.TemplateFileName,
		Content:  []byte("koi_period\n0\n0\n"),
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "sample_exoplanet_data.csv"))
	assert.FileExists(t, filepath.Join(dir, "sample_exoplanet_data.xlsx"))
}
