package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/exopredict/exopredict/internal/domain"
	"github.com/exopredict/exopredict/pkg/clients/exopredict"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MessageEnterKepID   = "Please enter a KepID"
	MessageInvalidKepID = "Please enter a valid KepID"
	MessageSelectCSV    = "Please select a CSV file"
	MessageNoFeatures   = "Feature list is not available"
)

// StateObserver is called after every applied transition while the session
// lock is held. It must not call back into the session.
type StateObserver func(state domain.RequestState)

type Dependencies struct {
	Catalog   domain.CatalogSource
	Predictor domain.PredictionService
	Artifacts domain.ArtifactSink
}

// Session is one operator's prediction session. All mutation happens under a
// single mutex; network calls run on their own goroutines and re-enter the
// lock only to apply their result.
type Session struct {
	id     string
	logger zerolog.Logger

	catalogSource domain.CatalogSource
	predictor     domain.PredictionService
	artifacts     domain.ArtifactSink

	mu         sync.Mutex
	catalog    domain.FeatureCatalog
	vector     *domain.FeatureVector
	mode       domain.SessionMode
	identifier string
	staged     *stagedFile
	stagedSeq  uint64
	state      domain.RequestState
	latest     uint64
	observers  []StateObserver

	wg sync.WaitGroup
}

type stagedFile struct {
	file domain.BatchFile
	seq  uint64
}

func New(deps Dependencies) *Session {
	id := uuid.NewString()

	return &Session{
		id:            id,
		logger:        log.With().Str("session_id", id).Logger(),
		catalogSource: deps.Catalog,
		predictor:     deps.Predictor,
		artifacts:     deps.Artifacts,
		vector:        domain.NewFeatureVector(domain.FeatureCatalog{}),
		mode:          domain.ModeByIdentifier,
		state:         domain.IdleState(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// LoadCatalog fetches the feature catalog. On success the catalog is replaced
// and the feature vector reset; on failure the catalog is left empty.
func (s *Session) LoadCatalog(ctx context.Context) (domain.FeatureCatalog, error) {
	catalog, err := s.catalogSource.FetchCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.catalog = domain.FeatureCatalog{}
		s.vector = domain.NewFeatureVector(s.catalog)
		s.logger.Error().Err(err).Msg("failed to load feature catalog")
		return domain.FeatureCatalog{}, fmt.Errorf("failed to load feature catalog: %w", err)
	}

	s.catalog = catalog
	s.vector = domain.NewFeatureVector(catalog)
	s.logger.Info().Int("features", catalog.Len()).Msg("feature catalog loaded")

	return catalog, nil
}

func (s *Session) Catalog() domain.FeatureCatalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog
}

func (s *Session) Mode() domain.SessionMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// SetMode switches the active mode. Drafts of the other modes are kept.
func (s *Session) SetMode(mode domain.SessionMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid session mode %d", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	return nil
}

func (s *Session) SetIdentifier(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identifier = raw
}

func (s *Session) Identifier() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identifier
}

func (s *Session) SetCell(name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.vector.SetCell(name, raw)
}

func (s *Session) Cells() []domain.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.vector.Cells()
}

// FillSampleDefaults overwrites every cell with its sample value
func (s *Session) FillSampleDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vector.Fill(domain.FillSampleDefaults(s.catalog))
}

// TemplateCSV returns the downloadable template for the current catalog
func (s *Session) TemplateCSV() (domain.Artifact, error) {
	catalog := s.Catalog()

	content, err := domain.BuildTemplateCSV(catalog)
	if err != nil {
		return domain.Artifact{}, err
	}

	return domain.Artifact{
		FileName:    domain.TemplateFileName,
		ContentType: domain.ContentTypeCSV,
		Content:     content,
	}, nil
}

// SelectFile stages handle for batch submission. A rejected file leaves the
// previously staged one in place.
func (s *Session) SelectFile(handle domain.FileHandle) (domain.BatchFile, error) {
	file, err := domain.SelectFile(handle)
	if err != nil {
		return domain.BatchFile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stagedSeq++
	s.staged = &stagedFile{file: file, seq: s.stagedSeq}

	return file, nil
}

func (s *Session) StagedFile() (domain.BatchFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged == nil {
		return domain.BatchFile{}, false
	}
	return s.staged.file, true
}

func (s *Session) State() domain.RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) OnStateChange(observer StateObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
}

// Submit dispatches to the submit action of the active mode
func (s *Session) Submit(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	mode := s.mode
	identifier := s.identifier
	s.mu.Unlock()

	switch mode {
	case domain.ModeByIdentifier:
		return s.SubmitByIdentifier(ctx, identifier)
	case domain.ModeByFeatureVector:
		return s.SubmitByFeatureVector(ctx)
	case domain.ModeByBatchFile:
		return s.SubmitByBatchFile(ctx)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrWrongMode, mode)
}

func (s *Session) SubmitByIdentifier(ctx context.Context, raw string) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != domain.ModeByIdentifier {
		return nil, fmt.Errorf("%w: active mode is %s", domain.ErrWrongMode, s.mode)
	}

	s.identifier = raw
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return s.rejectLocked(domain.ModeByIdentifier, &domain.InputError{Field: "kepid", Message: MessageEnterKepID}), nil
	}

	kepID, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return s.rejectLocked(domain.ModeByIdentifier, &domain.InputError{Field: "kepid", Message: MessageInvalidKepID}), nil
	}

	submission := s.beginLocked(domain.ModeByIdentifier)
	s.logger.Info().Int64("kepid", kepID).Uint64("token", submission.Token.Seq).Msg("submitting prediction by kepid")

	s.run(ctx, submission, func(ctx context.Context) func() domain.RequestState {
		result, err := s.predictor.PredictByKepID(ctx, kepID)
		return s.singleResult(submission, domain.ModeByIdentifier, result, err)
	})

	return submission, nil
}

func (s *Session) SubmitByFeatureVector(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != domain.ModeByFeatureVector {
		return nil, fmt.Errorf("%w: active mode is %s", domain.ErrWrongMode, s.mode)
	}

	if s.catalog.IsEmpty() {
		return s.rejectLocked(domain.ModeByFeatureVector, &domain.InputError{Field: "features", Message: MessageNoFeatures}), nil
	}

	features, err := s.vector.ToNumericVector()
	if err != nil {
		return s.rejectLocked(domain.ModeByFeatureVector, err), nil
	}

	submission := s.beginLocked(domain.ModeByFeatureVector)
	s.logger.Info().Int("features", len(features)).Uint64("token", submission.Token.Seq).Msg("submitting prediction by features")

	s.run(ctx, submission, func(ctx context.Context) func() domain.RequestState {
		result, err := s.predictor.PredictByFeatures(ctx, features)
		return s.singleResult(submission, domain.ModeByFeatureVector, result, err)
	})

	return submission, nil
}

func (s *Session) SubmitByBatchFile(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != domain.ModeByBatchFile {
		return nil, fmt.Errorf("%w: active mode is %s", domain.ErrWrongMode, s.mode)
	}

	if s.staged == nil {
		return s.rejectLocked(domain.ModeByBatchFile, &domain.InputError{Field: "file", Message: MessageSelectCSV}), nil
	}

	staged := *s.staged
	submission := s.beginLocked(domain.ModeByBatchFile)
	s.logger.Info().Str("file_name", staged.file.Name()).Uint64("token", submission.Token.Seq).Msg("submitting batch prediction")

	s.run(ctx, submission, func(ctx context.Context) func() domain.RequestState {
		payload, err := s.predictBatch(ctx, staged.file)
		return s.batchResult(ctx, submission, staged, payload, err)
	})

	return submission, nil
}

func (s *Session) predictBatch(ctx context.Context, file domain.BatchFile) (domain.BatchPayload, error) {
	reader, err := file.Open()
	if err != nil {
		return domain.BatchPayload{}, &domain.IntakeError{
			FileName: file.Name(),
			Message:  fmt.Sprintf("Could not read %s", file.Name()),
		}
	}
	defer reader.Close()

	return s.predictor.PredictBatch(ctx, domain.PredictBatchParams{
		FileName: file.Name(),
		Content:  reader,
	})
}

// singleResult returns the transition for a single-item response
func (s *Session) singleResult(submission *Submission, mode domain.SessionMode, result domain.PredictionResult, err error) func() domain.RequestState {
	return func() domain.RequestState {
		if err != nil {
			return domain.FailedState(mode, submission.Token.Seq, err)
		}
		return domain.SucceededState(mode, submission.Token.Seq, result)
	}
}

// batchResult returns the transition for a batch response. It runs under the
// lock and only for the latest token, so a stale payload is never delivered.
func (s *Session) batchResult(ctx context.Context, submission *Submission, staged stagedFile, payload domain.BatchPayload, err error) func() domain.RequestState {
	return func() domain.RequestState {
		mode := domain.ModeByBatchFile
		seq := submission.Token.Seq

		if err != nil {
			return domain.FailedState(mode, seq, err)
		}

		fileName := domain.PredictionsFileName(staged.file.Name())
		path, deliverErr := s.artifacts.Deliver(ctx, domain.Artifact{
			FileName:    fileName,
			ContentType: payload.ContentType,
			Content:     payload.Content,
		})
		if deliverErr != nil {
			s.logger.Error().Err(deliverErr).Str("file_name", fileName).Msg("failed to deliver predictions")
			return domain.FailedState(mode, seq, fmt.Errorf("failed to save %s: %w", fileName, deliverErr))
		}

		summary, summaryErr := domain.SummarizeBatch(payload.Content)
		if summaryErr != nil {
			s.logger.Warn().Err(summaryErr).Str("file_name", fileName).Msg("could not summarize predictions")
		}

		// a file staged while this request was in flight is kept
		if s.staged != nil && s.staged.seq == staged.seq {
			s.staged = nil
		}

		return domain.BatchSucceededState(mode, seq, domain.BatchResult{
			SourceFileName: staged.file.Name(),
			FileName:       fileName,
			Path:           path,
			Summary:        summary,
		})
	}
}

// run performs call on its own goroutine and applies the transition it
// returns if the submission is still the latest one.
func (s *Session) run(ctx context.Context, submission *Submission, call func(ctx context.Context) func() domain.RequestState) {
	ctx = exopredict.WithRequestID(ctx, submission.Token.RequestID)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		transition := call(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if submission.Token.Seq != s.latest {
			s.logger.Debug().
				Uint64("token", submission.Token.Seq).
				Uint64("latest", s.latest).
				Str("request_id", submission.Token.RequestID).
				Msg("discarding stale response")

			submission.complete(Outcome{State: s.state, Discarded: true})
			return
		}

		state := transition()
		s.setStateLocked(state)
		submission.complete(Outcome{State: state})
	}()
}

// beginLocked issues a new token and enters Pending
func (s *Session) beginLocked(mode domain.SessionMode) *Submission {
	s.latest++
	submission := newSubmission(newToken(s.latest))
	s.setStateLocked(domain.PendingState(mode, submission.Token.Seq))

	return submission
}

// rejectLocked fails a submission locally. It still issues a token so that
// any response still in flight is discarded.
func (s *Session) rejectLocked(mode domain.SessionMode, err error) *Submission {
	s.latest++
	submission := newSubmission(newToken(s.latest))

	state := domain.FailedState(mode, submission.Token.Seq, err)
	s.logger.Debug().Str("mode", mode.String()).Str("message", state.Message).Msg("submission rejected")

	s.setStateLocked(state)
	submission.complete(Outcome{State: state})

	return submission
}

func (s *Session) setStateLocked(state domain.RequestState) {
	s.state = state

	event := s.logger.Debug()
	if state.Status == domain.StatusFailed {
		event = s.logger.Warn().Err(state.Err)
	}
	event.
		Str("status", state.Status.String()).
		Str("mode", state.Mode.String()).
		Uint64("token", state.Token).
		Msg("request state changed")

	for _, observer := range s.observers {
		observer(state)
	}
}

// Close waits for every in-flight submission to finish
func (s *Session) Close() {
	s.wg.Wait()
}
