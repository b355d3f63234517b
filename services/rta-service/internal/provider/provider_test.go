package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/pkg/testutil"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

func TestMockProvider(t *testing.T) {
	cfg := ProviderConfig{Name: "mock", Type: "mock", Wells: 3, Seed: 42}

	t.Run("lists the configured number of wells", func(t *testing.T) {
		p := NewMockProvider(cfg)

		wells, err := p.ListWells(context.Background())
		require.NoError(t, err)
		require.Len(t, wells, 3)

		for _, w := range wells {
			assert.NotEmpty(t, w.WellID)
			assert.NotEmpty(t, w.Name)
			assert.Contains(t, []string{"oil", "gas"}, w.FluidType)
		}
	})

	t.Run("generation is deterministic for a seed", func(t *testing.T) {
		a := NewMockProvider(cfg)
		b := NewMockProvider(cfg)

		seriesA, err := a.GetProductionSeries(context.Background(), "mock-001")
		require.NoError(t, err)
		seriesB, err := b.GetProductionSeries(context.Background(), "mock-001")
		require.NoError(t, err)

		assert.Equal(t, seriesA, seriesB)
	})

	t.Run("different seeds produce different histories", func(t *testing.T) {
		a := NewMockProvider(ProviderConfig{Name: "mock", Type: "mock", Wells: 1, Seed: 42})
		b := NewMockProvider(ProviderConfig{Name: "mock", Type: "mock", Wells: 1, Seed: 43})

		seriesA, err := a.GetProductionSeries(context.Background(), "mock-001")
		require.NoError(t, err)
		seriesB, err := b.GetProductionSeries(context.Background(), "mock-001")
		require.NoError(t, err)

		assert.NotEqual(t, seriesA.Rates, seriesB.Rates)
	})

	t.Run("series is physically consistent", func(t *testing.T) {
		p := NewMockProvider(cfg)

		series, err := p.GetProductionSeries(context.Background(), "mock-002")
		require.NoError(t, err)

		require.NoError(t, series.Validate())
		assert.True(t, series.HasPressures())
		for i := 1; i < series.Len(); i++ {
			assert.GreaterOrEqual(t, series.Cumulatives[i], series.Cumulatives[i-1], "index %d", i)
			assert.True(t, series.Dates[i].After(series.Dates[i-1]), "index %d", i)
		}
		for i, r := range series.Rates {
			assert.GreaterOrEqual(t, r, 0.0, "index %d", i)
		}
	})

	t.Run("properties match the generated pressure history", func(t *testing.T) {
		p := NewMockProvider(cfg)

		series, err := p.GetProductionSeries(context.Background(), "mock-001")
		require.NoError(t, err)
		props, err := p.GetWellProperties(context.Background(), "mock-001")
		require.NoError(t, err)

		require.NoError(t, props.Validate())
		// The first pressure point sits at most one depletion step under the
		// initial pressure.
		assert.LessOrEqual(t, series.Pressures[0], props.InitialPressure)
	})

	t.Run("unknown well", func(t *testing.T) {
		p := NewMockProvider(cfg)

		_, err := p.GetProductionSeries(context.Background(), "nope")
		assert.ErrorIs(t, err, models.ErrWellNotFound)
		_, err = p.GetWellProperties(context.Background(), "nope")
		assert.ErrorIs(t, err, models.ErrWellNotFound)
	})
}

func TestHTTPProvider(t *testing.T) {
	server := testutil.NewMockWellDataServer()
	defer server.Close()
	server.APIKey = "secret"
	server.AddWell(testutil.SimpleWell("w1", 10, 500))

	newProvider := func(key string) *HTTPProvider {
		return NewHTTPProvider(ProviderConfig{
			Name:    "remote",
			Type:    "http",
			BaseURL: server.URL(),
			APIKey:  key,
		})
	}

	t.Run("lists wells", func(t *testing.T) {
		wells, err := newProvider("secret").ListWells(context.Background())
		require.NoError(t, err)

		require.Len(t, wells, 1)
		assert.Equal(t, "w1", wells[0].WellID)
	})

	t.Run("fetches and validates a series", func(t *testing.T) {
		series, err := newProvider("secret").GetProductionSeries(context.Background(), "w1")
		require.NoError(t, err)

		assert.Equal(t, 10, series.Len())
		assert.Equal(t, 500.0, series.Rates[0])
	})

	t.Run("fetches properties", func(t *testing.T) {
		props, err := newProvider("secret").GetWellProperties(context.Background(), "w1")
		require.NoError(t, err)

		assert.Equal(t, 5000.0, props.InitialPressure)
	})

	t.Run("unknown well maps to ErrWellNotFound", func(t *testing.T) {
		_, err := newProvider("secret").GetProductionSeries(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrWellNotFound)
	})

	t.Run("rejected api key surfaces as an error", func(t *testing.T) {
		_, err := newProvider("wrong").ListWells(context.Background())
		require.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	log := logger.New("provider-test", "error", "text")

	t.Run("instantiates configured providers", func(t *testing.T) {
		catalog := &Catalog{Providers: []ProviderConfig{
			{Name: "mock-a", Type: "mock", Wells: 2, Seed: 7},
			{Name: "remote", Type: "http", BaseURL: "http://example.test"},
			{Name: "bogus", Type: "ftp"},
		}}

		providers := Build(catalog, log)

		require.Len(t, providers, 2)
		assert.Contains(t, providers, "mock-a")
		assert.Contains(t, providers, "remote")
	})

	t.Run("empty catalog falls back to a default mock", func(t *testing.T) {
		providers := Build(&Catalog{}, log)

		require.Len(t, providers, 1)
		assert.Contains(t, providers, "mock")
	})
}
