package initialization

import (
	"github.com/exopredict/exopredict/internal/config"
	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/internal/managers"
	"github.com/exopredict/exopredict/internal/session"
	"github.com/exopredict/exopredict/internal/version"
	"github.com/exopredict/exopredict/pkg/clients/exopredict"

	"github.com/rs/zerolog/log"
)

// Container owns the long-lived dependencies of one CLI invocation
type Container struct {
	config        config.Config
	client        *exopredict.Client
	catalogSource domain.CatalogSource
	predictor     domain.PredictionService
	exporter      domain.SpreadsheetExporter
}

func NewContainer(cfg config.Config) *Container {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	client := exopredict.NewClient(
		exopredict.WithBaseURL(cfg.APIBaseURL),
		exopredict.WithTimeout(cfg.Timeout),
		exopredict.WithRetryAttempts(cfg.RetryAttempts),
		exopredict.WithRetryDelay(cfg.RetryDelay),
		exopredict.WithUserAgent(userAgent),
	)

	log.Debug().
		Str("api_base_url", client.BaseURL()).
		Dur("timeout", cfg.Timeout).
		Int("retry_attempts", cfg.RetryAttempts).
		Msg("Building dependencies")

	return &Container{
		config: cfg,
		client: client,
		catalogSource: managers.NewFeatureCatalogManager(managers.FeatureCatalogManagerDependencies{
			Client: client,
		}),
		predictor: managers.NewPredictionManager(managers.PredictionManagerDependencies{
			Client: client,
		}),
		exporter: managers.NewSpreadsheetExporter(),
	}
}

func (c *Container) GetConfig() config.Config {
	return c.config
}

func (c *Container) GetClient() exopredict.ClientInterface {
	return c.client
}

func (c *Container) GetBaseURL() string {
	return c.client.BaseURL()
}

func (c *Container) GetCatalogSource() domain.CatalogSource {
	return c.catalogSource
}

// GetArtifactSink writes into the configured download directory, with an
// XLSX twin when enabled in config.
func (c *Container) GetArtifactSink() domain.ArtifactSink {
	deps := managers.FileArtifactManagerDependencies{
		Dir: c.config.DownloadDir,
	}

	if c.config.XLSX {
		deps.Exporter = c.exporter
	}

	return managers.NewFileArtifactManager(deps)
}

// NewSession starts a prediction session; the caller loads the catalog
func (c *Container) NewSession() *session.Session {
	return session.New(session.Dependencies{
		Catalog:   c.catalogSource,
		Predictor: c.predictor,
		Artifacts: c.GetArtifactSink(),
	})
}
