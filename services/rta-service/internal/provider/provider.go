package provider

import (
	"context"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// DataProvider supplies well lists and production histories from some
// source: an embedded synthetic generator, a remote API, or anything else
// producing the core data shapes. The engine does not care about provenance;
// providers guarantee chronologically sorted series.
type DataProvider interface {
	Name() string
	ListWells(ctx context.Context) ([]models.WellSummary, error)
	GetProductionSeries(ctx context.Context, wellID string) (*models.ProductionSeries, error)
	GetWellProperties(ctx context.Context, wellID string) (*models.WellStaticProperties, error)
}
