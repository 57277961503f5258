package managers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/exopredict/exopredict/internal/domain"

	"github.com/rs/zerolog/log"
)

const artifactTempPattern = ".exopredict-*.part"

type fileArtifactManager struct {
	dir      string
	exporter domain.SpreadsheetExporter
}

type FileArtifactManagerDependencies struct {
	// Dir is created on first delivery when missing
	Dir string

	// Exporter, when set, also writes an .xlsx twin of every .csv artifact
	Exporter domain.SpreadsheetExporter
}

func NewFileArtifactManager(deps FileArtifactManagerDependencies) domain.ArtifactSink {
	dir := deps.Dir
	if dir == "" {
		dir = "."
	}

	return &fileArtifactManager{
		dir:      dir,
		exporter: deps.Exporter,
	}
}

// Deliver writes the artifact into the download directory and returns its
// path. The file only appears under its final name once fully written.
func (m *fileArtifactManager) Deliver(ctx context.Context, artifact domain.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fileName := filepath.Base(artifact.FileName)
	if fileName == "." || fileName == string(filepath.Separator) || fileName == "" {
		return "", fmt.Errorf("invalid artifact name %q", artifact.FileName)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path, err := m.writeFile(fileName, artifact.Content)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("path", path).
		Int("size", len(artifact.Content)).
		Str("content_type", artifact.ContentType).
		Msg("artifact delivered")

	if m.exporter != nil && strings.HasSuffix(fileName, domain.CSVExtension) {
		if twin, err := m.writeSpreadsheet(fileName, artifact.Content); err != nil {
			log.Warn().Err(err).Str("file_name", fileName).Msg("failed to write spreadsheet copy")
		} else {
			log.Info().Str("path", twin).Msg("spreadsheet copy delivered")
		}
	}

	return path, nil
}

func (m *fileArtifactManager) writeSpreadsheet(fileName string, csvContent []byte) (string, error) {
	content, err := m.exporter.Export(csvContent)
	if err != nil {
		return "", fmt.Errorf("failed to export spreadsheet: %w", err)
	}

	return m.writeFile(XLSXName(fileName), content)
}

// writeFile stages content in a temporary file next to the destination and
// renames it into place. The temporary file is always released.
func (m *fileArtifactManager) writeFile(fileName string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(m.dir, artifactTempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(content); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}

	path := filepath.Join(m.dir, fileName)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return path, nil
}
