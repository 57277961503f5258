package managers

import (
	"context"
	"fmt"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/pkg/clients/exopredict"

	"github.com/rs/zerolog/log"
)

type predictionManager struct {
	client exopredict.ClientInterface
}

type PredictionManagerDependencies struct {
	Client exopredict.ClientInterface
}

func NewPredictionManager(deps PredictionManagerDependencies) domain.PredictionService {
	return &predictionManager{
		client: deps.Client,
	}
}

func (m *predictionManager) PredictByKepID(ctx context.Context, kepID int64) (domain.PredictionResult, error) {
	resp, err := m.client.Predict(ctx, &exopredict.PredictRequest{
		KepID: &kepID,
	})
	if err != nil {
		log.Debug().Err(err).Int64("kepid", kepID).Msg("prediction by kepid failed")
		return domain.PredictionResult{}, ClassifyError(err, domain.MessagePredictionFailed)
	}

	return domain.PredictionResult{Probability: resp.ProbabilityOfPlanet}, nil
}

func (m *predictionManager) PredictByFeatures(ctx context.Context, features map[string]float64) (domain.PredictionResult, error) {
	if len(features) == 0 {
		return domain.PredictionResult{}, domain.ErrCatalogUnavailable
	}

	resp, err := m.client.Predict(ctx, &exopredict.PredictRequest{
		Features: features,
	})
	if err != nil {
		log.Debug().Err(err).Int("features", len(features)).Msg("prediction by features failed")
		return domain.PredictionResult{}, ClassifyError(err, domain.MessagePredictionFailed)
	}

	return domain.PredictionResult{Probability: resp.ProbabilityOfPlanet}, nil
}

func (m *predictionManager) PredictBatch(ctx context.Context, params domain.PredictBatchParams) (domain.BatchPayload, error) {
	if params.Content == nil {
		return domain.BatchPayload{}, fmt.Errorf("batch content is required")
	}

	resp, err := m.client.PredictCSV(ctx, &exopredict.PredictCSVRequest{
		FileName: params.FileName,
		Content:  params.Content,
	})
	if err != nil {
		log.Debug().Err(err).Str("file_name", params.FileName).Msg("batch prediction failed")
		return domain.BatchPayload{}, ClassifyError(err, domain.MessageCSVPredictionFailed)
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = domain.ContentTypeCSV
	}

	return domain.BatchPayload{
		Content:     resp.Content,
		ContentType: contentType,
	}, nil
}
