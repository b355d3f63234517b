package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

func dailyDates(n int) []time.Time {
	dates := make([]time.Time, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func accumulate(rates []float64) []float64 {
	cums := make([]float64, len(rates))
	var total float64
	for i, r := range rates {
		total += r
		cums[i] = total
	}
	return cums
}

func TestMaterialBalanceTimes(t *testing.T) {
	t.Run("all flowing points use cumulative over rate exactly", func(t *testing.T) {
		rates := []float64{1000, 950, 900, 850}
		cums := []float64{1000, 1950, 2850, 3700}

		te := materialBalanceTimes(rates, cums)

		require.Len(t, te, 4)
		for i := range rates {
			assert.Equal(t, cums[i]/rates[i], te[i], "index %d", i)
		}
	})

	t.Run("shut-in carries the previous value forward", func(t *testing.T) {
		rates := []float64{100, 90, 0, 0, 80}
		cums := []float64{100, 190, 190, 190, 270}

		te := materialBalanceTimes(rates, cums)

		assert.Equal(t, te[1], te[2])
		assert.Equal(t, te[1], te[3])
		assert.Equal(t, cums[4]/rates[4], te[4])
	})

	t.Run("leading shut-in gets the floor instead of zero", func(t *testing.T) {
		te := materialBalanceTimes([]float64{0, 50, 60}, []float64{0, 50, 110})

		assert.Equal(t, 0.001, te[0])
		assert.Equal(t, 1.0, te[1])
	})

	t.Run("all shut-in stays at the floor", func(t *testing.T) {
		te := materialBalanceTimes([]float64{0, 0, 0}, []float64{0, 0, 0})

		for i, v := range te {
			assert.Equal(t, 0.001, v, "index %d", i)
		}
	})
}

func TestBlasingameCalculate(t *testing.T) {
	engine := NewBlasingameEngine()

	t.Run("cleaned arrays stay parallel finite and positive", func(t *testing.T) {
		// Ramping rates keep the rate integral rising so its derivative
		// survives the positivity cleanup.
		rates := make([]float64, 20)
		for i := range rates {
			rates[i] = 100 + 10*float64(i)
		}
		series := &models.ProductionSeries{
			Dates:       dailyDates(20),
			Rates:       rates,
			Cumulatives: accumulate(rates),
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		m := out.CleanedLen()
		assert.True(t, out.Renderable())
		assert.Less(t, m, 20)
		require.Len(t, out.QDd, m)
		require.Len(t, out.QDdi, m)
		require.Len(t, out.QDdid, m)

		for i := 0; i < m; i++ {
			for _, v := range []float64{out.MaterialBalanceTime[i], out.QDd[i], out.QDdi[i], out.QDdid[i]} {
				assert.True(t, isFinite(v) && v > 0, "index %d value %g", i, v)
			}
		}

		// Reference arrays keep the full input length.
		assert.Len(t, out.Times, 20)
		assert.Len(t, out.Rates, 20)
		assert.Len(t, out.PressureDrops, 20)
	})

	t.Run("missing pressures fall back to estimated depletion", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(5),
			Rates:       []float64{100, 95, 90, 85, 80},
			Cumulatives: []float64{100, 195, 285, 370, 450},
		}
		props := models.DefaultWellProperties(4000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.False(t, out.MeasuredPressure)
		for i, drop := range out.PressureDrops {
			assert.Equal(t, 0.35*4000, drop, "index %d", i)
		}
	})

	t.Run("length-mismatched pressures also fall back", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(4),
			Rates:       []float64{100, 95, 90, 85},
			Cumulatives: []float64{100, 195, 285, 370},
			Pressures:   []float64{4500, 4400},
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.False(t, out.MeasuredPressure)
		assert.Equal(t, 0.35*5000, out.PressureDrops[0])
	})

	t.Run("measured drawdown is clamped from below", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(3),
			Rates:       []float64{100, 95, 90},
			Cumulatives: []float64{100, 195, 285},
			// Pressure above initial would give a negative drawdown.
			Pressures: []float64{5100, 4990, 4000},
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.True(t, out.MeasuredPressure)
		assert.Equal(t, 100.0, out.PressureDrops[0])
		assert.Equal(t, 100.0, out.PressureDrops[1])
		assert.Equal(t, 1000.0, out.PressureDrops[2])
	})

	t.Run("declining well with measured pressures", func(t *testing.T) {
		pressures := make([]float64, 10)
		for i := range pressures {
			pressures[i] = 4500 - 50*float64(i)
		}
		series := &models.ProductionSeries{
			Dates:       dailyDates(10),
			Rates:       []float64{1000, 950, 900, 850, 800, 750, 700, 650, 600, 550},
			Cumulatives: []float64{1000, 1950, 2850, 3700, 4500, 5250, 5950, 6600, 7200, 7750},
			Pressures:   pressures,
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.True(t, out.MeasuredPressure)
		// First-point normalized rate: 1000 / (5000 - 4500).
		assert.InDelta(t, 2.0, out.Rates[0]/out.PressureDrops[0], 1e-12)
	})

	t.Run("mid-series shut-in does not crash and drops points", func(t *testing.T) {
		rates := []float64{100, 90, 0, 0, 80, 75, 70, 65, 60, 55}
		series := &models.ProductionSeries{
			Dates:       dailyDates(10),
			Rates:       rates,
			Cumulatives: accumulate(rates),
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.Less(t, out.CleanedLen(), 10)
	})

	t.Run("all-zero rates yield an empty non-renderable result", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(5),
			Rates:       []float64{0, 0, 0, 0, 0},
			Cumulatives: []float64{0, 0, 0, 0, 0},
		}
		props := models.DefaultWellProperties(5000)

		out, err := engine.Calculate(series, &props)
		require.NoError(t, err)

		assert.Equal(t, 0, out.CleanedLen())
		assert.False(t, out.Renderable())
	})

	t.Run("shape mismatch fails fast", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(3),
			Rates:       []float64{100, 95},
			Cumulatives: []float64{100, 195, 285},
		}
		props := models.DefaultWellProperties(5000)

		_, err := engine.Calculate(series, &props)
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})

	t.Run("non-positive well property fails fast", func(t *testing.T) {
		series := &models.ProductionSeries{
			Dates:       dailyDates(2),
			Rates:       []float64{100, 95},
			Cumulatives: []float64{100, 195},
		}
		props := models.DefaultWellProperties(5000)
		props.Porosity = 0

		_, err := engine.Calculate(series, &props)
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})
}
