package managers

import (
	"context"
	"fmt"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/pkg/clients/exopredict"

	"github.com/rs/zerolog/log"
)

type featureCatalogManager struct {
	client exopredict.ClientInterface
}

type FeatureCatalogManagerDependencies struct {
	Client exopredict.ClientInterface
}

func NewFeatureCatalogManager(deps FeatureCatalogManagerDependencies) domain.CatalogSource {
	return &featureCatalogManager{
		client: deps.Client,
	}
}

func (m *featureCatalogManager) FetchCatalog(ctx context.Context) (domain.FeatureCatalog, error) {
	resp, err := m.client.GetFeatures(ctx)
	if err != nil {
		return domain.FeatureCatalog{}, ClassifyError(err, domain.MessageCatalogFailed)
	}

	catalog, err := domain.NewFeatureCatalog(resp.Features)
	if err != nil {
		return domain.FeatureCatalog{}, fmt.Errorf("failed to build feature catalog: %w", err)
	}

	if resp.Count != 0 && resp.Count != catalog.Len() {
		log.Warn().
			Int("count", resp.Count).
			Int("features", catalog.Len()).
			Msg("feature count does not match the number of features returned")
	}

	log.Debug().Int("features", catalog.Len()).Msg("feature catalog loaded")

	return catalog, nil
}
