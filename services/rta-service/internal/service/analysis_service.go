package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/pkg/messaging"
	"github.com/petraflow/wellscope/services/rta-service/internal/importer"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
	"github.com/petraflow/wellscope/services/rta-service/internal/provider"
	"github.com/petraflow/wellscope/services/rta-service/internal/repository"
)

// AnalysisService orchestrates the RTA workflow: ingesting datasets,
// running the Blasingame engine, classifying flow regimes and driving the
// interactive type-curve matching loop. The engine components it wires are
// stateless; all persistence goes through the repositories.
type AnalysisService struct {
	engine     *BlasingameEngine
	classifier *RegimeClassifier
	matcher    *TypeCurveMatcher
	datasets   *repository.DatasetRepository
	matches    *repository.MatchRepository
	providers  map[string]provider.DataProvider
	events     messaging.Client
	exchange   string
	log        logger.Logger
}

func NewAnalysisService(
	datasets *repository.DatasetRepository,
	matches *repository.MatchRepository,
	providers map[string]provider.DataProvider,
	events messaging.Client,
	exchange string,
	log logger.Logger,
) *AnalysisService {
	return &AnalysisService{
		engine:     NewBlasingameEngine(),
		classifier: NewRegimeClassifier(),
		matcher:    NewTypeCurveMatcher(),
		datasets:   datasets,
		matches:    matches,
		providers:  providers,
		events:     events,
		exchange:   exchange,
		log:        log,
	}
}

// ImportDataset stores a parsed import as a new dataset. Identical content
// (by hash) is rejected with ErrDuplicateImport before hitting the unique
// index.
func (s *AnalysisService) ImportDataset(ctx context.Context, wellName, source string, result *importer.ImportResult, props models.WellStaticProperties) (*models.WellDataset, error) {
	if err := result.Series.Validate(); err != nil {
		return nil, err
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.datasets.GetByContentHash(ctx, result.ContentHash); err == nil {
		return nil, models.ErrDuplicateImport
	} else if !errors.Is(err, models.ErrDatasetNotFound) {
		return nil, err
	}

	dataset := &models.WellDataset{
		ID:          uuid.NewString(),
		WellName:    wellName,
		Source:      source,
		ContentHash: result.ContentHash,
		CreatedAt:   time.Now().UTC(),
		Series:      result.Series,
		Properties:  props,
		SkippedRows: result.SkippedRows,
	}

	if err := s.datasets.Save(ctx, dataset); err != nil {
		return nil, err
	}

	RecordDatasetImported(source)
	s.publish("dataset.imported", models.DatasetImportedEvent{
		DatasetID: dataset.ID,
		WellName:  dataset.WellName,
		Source:    dataset.Source,
		Points:    dataset.Series.Len(),
		Timestamp: dataset.CreatedAt,
	})

	s.log.Info("Dataset imported",
		logger.Field{Key: "dataset_id", Value: dataset.ID},
		logger.Field{Key: "well", Value: dataset.WellName},
		logger.Field{Key: "points", Value: dataset.Series.Len()},
		logger.Field{Key: "skipped_rows", Value: dataset.SkippedRows},
	)

	return dataset, nil
}

// ImportFromProvider pulls a well's history and properties from a configured
// data provider and stores them as a dataset.
func (s *AnalysisService) ImportFromProvider(ctx context.Context, providerName, wellID string) (*models.WellDataset, error) {
	p, ok := s.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", providerName)
	}

	series, err := p.GetProductionSeries(ctx, wellID)
	if err != nil {
		return nil, err
	}
	props, err := p.GetWellProperties(ctx, wellID)
	if err != nil {
		return nil, err
	}

	result := importer.FromSeries(series)
	return s.ImportDataset(ctx, wellID, providerName, result, *props)
}

// ListWells lists the wells a provider can serve.
func (s *AnalysisService) ListWells(ctx context.Context, providerName string) ([]models.WellSummary, error) {
	p, ok := s.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", providerName)
	}
	return p.ListWells(ctx)
}

// ProviderNames returns the names of all configured providers.
func (s *AnalysisService) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

// Analyze runs the full Blasingame pipeline plus regime classification for a
// stored dataset. Nothing is cached: the series is recomputed from scratch
// on every call.
func (s *AnalysisService) Analyze(ctx context.Context, datasetID string) (*models.AnalysisResult, error) {
	dataset, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	output, err := s.engine.Calculate(&dataset.Series, &dataset.Properties)
	RecordCalculation(time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	segments := []models.FlowRegimeSegment{}
	if output.Renderable() {
		segments, err = s.classifier.IdentifyFlowRegimes(output.MaterialBalanceTime, output.QDdid)
		if err != nil {
			return nil, err
		}
		RecordRegimeSegments(segments)
	} else {
		s.log.Warn("Degenerate series, no renderable curve",
			logger.Field{Key: "dataset_id", Value: datasetID},
			logger.Field{Key: "cleaned_points", Value: output.CleanedLen()},
		)
	}

	s.publish("analysis.completed", models.AnalysisCompletedEvent{
		DatasetID:     datasetID,
		CleanedPoints: output.CleanedLen(),
		Renderable:    output.Renderable(),
		Segments:      len(segments),
		Timestamp:     time.Now().UTC(),
	})

	return &models.AnalysisResult{
		DatasetID:  datasetID,
		Output:     output,
		Segments:   segments,
		Renderable: output.Renderable(),
	}, nil
}

// EvaluateMatch runs one tick of the interactive matching loop: recompute
// the calculated curves, synthesize the theoretical family for params and
// score the fit. Called on every slider change, so it must stay cheap.
func (s *AnalysisService) EvaluateMatch(ctx context.Context, datasetID string, params models.MatchParameters) (*models.MatchResult, error) {
	dataset, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	output, err := s.engine.Calculate(&dataset.Series, &dataset.Properties)
	if err != nil {
		return nil, err
	}
	if !output.Renderable() {
		return nil, models.ErrDegenerateSeries
	}

	start := time.Now()
	curves, quality, err := s.matcher.Score(output, params)
	if err != nil {
		return nil, err
	}
	RecordMatchEvaluation(time.Since(start).Seconds(), quality)

	return &models.MatchResult{
		DatasetID:  datasetID,
		Parameters: params,
		Curves:     curves,
		Quality:    quality,
	}, nil
}

// SaveMatch persists a user-accepted parameter set with its fit quality.
func (s *AnalysisService) SaveMatch(ctx context.Context, datasetID, userID string, params models.MatchParameters) (*models.SavedMatch, error) {
	result, err := s.EvaluateMatch(ctx, datasetID, params)
	if err != nil {
		return nil, err
	}

	match := &models.SavedMatch{
		ID:         uuid.NewString(),
		DatasetID:  datasetID,
		Parameters: params,
		Quality:    result.Quality,
		CreatedBy:  userID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.matches.Save(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

// publish sends an event if messaging is configured. Publish failures are
// logged, never surfaced to the caller.
func (s *AnalysisService) publish(routingKey string, event interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(s.exchange, routingKey, event); err != nil {
		s.log.WithError(err).Warn("Failed to publish event",
			logger.Field{Key: "routing_key", Value: routingKey},
		)
	}
}
