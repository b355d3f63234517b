package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// MockProvider serves synthetic but physically plausible decline histories.
// Generation is deterministic for a given catalog seed, so repeated fetches
// of the same well return identical data.
type MockProvider struct {
	name  string
	wells []models.WellSummary
	seeds map[string]int64
}

func NewMockProvider(cfg ProviderConfig) *MockProvider {
	count := cfg.Wells
	if count <= 0 {
		count = 5
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	faker := gofakeit.New(seed)

	p := &MockProvider{
		name:  cfg.Name,
		wells: make([]models.WellSummary, 0, count),
		seeds: make(map[string]int64, count),
	}

	for i := 0; i < count; i++ {
		wellID := fmt.Sprintf("%s-%03d", cfg.Name, i+1)
		fluid := "oil"
		if faker.Bool() {
			fluid = "gas"
		}
		p.wells = append(p.wells, models.WellSummary{
			WellID:    wellID,
			Name:      fmt.Sprintf("%s %d-%dH", faker.LastName(), faker.Number(1, 36), faker.Number(1, 9)),
			Field:     faker.City(),
			FluidType: fluid,
		})
		p.seeds[wellID] = seed + int64(i)*7919
	}

	return p
}

func (p *MockProvider) Name() string {
	return p.name
}

func (p *MockProvider) ListWells(_ context.Context) ([]models.WellSummary, error) {
	wells := make([]models.WellSummary, len(p.wells))
	copy(wells, p.wells)
	return wells, nil
}

// GetProductionSeries generates a two-year daily hyperbolic decline history
// with mild noise, occasional shut-in days, and a pressure series depleting
// with cumulative production.
func (p *MockProvider) GetProductionSeries(_ context.Context, wellID string) (*models.ProductionSeries, error) {
	seed, ok := p.seeds[wellID]
	if !ok {
		return nil, models.ErrWellNotFound
	}

	faker := gofakeit.New(seed)

	const days = 730
	initialRate := faker.Float64Range(300, 1500)
	declineRate := faker.Float64Range(0.002, 0.006) // 1/day
	bFactor := faker.Float64Range(0.5, 1.2)
	initialPressure := faker.Float64Range(3500, 6500)

	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	series := &models.ProductionSeries{
		Dates:       make([]time.Time, days),
		Rates:       make([]float64, days),
		Cumulatives: make([]float64, days),
		Pressures:   make([]float64, days),
	}

	var cumulative float64
	for i := 0; i < days; i++ {
		t := float64(i)
		rate := initialRate / math.Pow(1+bFactor*declineRate*t, 1/bFactor)
		rate *= faker.Float64Range(0.95, 1.05)

		// Sporadic shut-in days, as real histories have.
		if faker.Number(1, 100) == 1 {
			rate = 0
		}

		cumulative += rate

		series.Dates[i] = start.AddDate(0, 0, i)
		series.Rates[i] = rate
		series.Cumulatives[i] = cumulative
		series.Pressures[i] = math.Max(initialPressure-cumulative*0.004, 0.3*initialPressure)
	}

	return series, nil
}

func (p *MockProvider) GetWellProperties(_ context.Context, wellID string) (*models.WellStaticProperties, error) {
	seed, ok := p.seeds[wellID]
	if !ok {
		return nil, models.ErrWellNotFound
	}

	// Replay the series generator's draw order so the reported initial
	// pressure matches the generated pressure history.
	faker := gofakeit.New(seed)
	faker.Float64Range(300, 1500)
	faker.Float64Range(0.002, 0.006)
	faker.Float64Range(0.5, 1.2)
	initialPressure := faker.Float64Range(3500, 6500)

	return &models.WellStaticProperties{
		InitialPressure:       initialPressure,
		WellboreRadius:        faker.Float64Range(0.25, 0.45),
		NetPayThickness:       faker.Float64Range(20, 150),
		Porosity:              faker.Float64Range(0.05, 0.25),
		TotalCompressibility:  faker.Float64Range(5e-6, 3e-5),
		Viscosity:             faker.Float64Range(0.3, 2.5),
		FormationVolumeFactor: faker.Float64Range(1.05, 1.6),
	}, nil
}
