package session

import (
	"context"
	"io"
	"sync"

	"github.com/exopredict/exopredict/internal/domain"
)

type fakeCatalog struct {
	names []string
	err   error
}

func (c *fakeCatalog) FetchCatalog(ctx context.Context) (domain.FeatureCatalog, error) {
	if c.err != nil {
		return domain.FeatureCatalog{}, c.err
	}
	return domain.NewFeatureCatalog(c.names)
}

type reply struct {
	result  domain.PredictionResult
	payload domain.BatchPayload
	err     error
}

type call struct {
	kepID    int64
	features map[string]float64
	fileName string
	content  string
	release  chan reply
}

// fakePredictor answers with reply, or, when calls is set, hands every call
// to the test and blocks until the test releases it.
type fakePredictor struct {
	reply reply
	calls chan *call

	mu    sync.Mutex
	count int
}

func (p *fakePredictor) answer(c *call) reply {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()

	if p.calls == nil {
		return p.reply
	}

	c.release = make(chan reply, 1)
	p.calls <- c
	return <-c.release
}

func (p *fakePredictor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.count
}

func (p *fakePredictor) PredictByKepID(ctx context.Context, kepID int64) (domain.PredictionResult, error) {
	r := p.answer(&call{kepID: kepID})
	return r.result, r.err
}

func (p *fakePredictor) PredictByFeatures(ctx context.Context, features map[string]float64) (domain.PredictionResult, error) {
	r := p.answer(&call{features: features})
	return r.result, r.err
}

func (p *fakePredictor) PredictBatch(ctx context.Context, params domain.PredictBatchParams) (domain.BatchPayload, error) {
	content, _ := io.ReadAll(params.Content)
	r := p.answer(&call{fileName: params.FileName, content: string(content)})
	return r.payload, r.err
}

type fakeSink struct {
	mu        sync.Mutex
	delivered []domain.Artifact
	err       error
}

func (s *fakeSink) Deliver(ctx context.Context, artifact domain.Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}

	s.delivered = append(s.delivered, artifact)
	return "/downloads/" + artifact.FileName, nil
}

func (s *fakeSink) artifacts() []domain.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Artifact{}, s.delivered...)
}
