package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionSeriesValidate(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	t.Run("valid without pressures", func(t *testing.T) {
		s := ProductionSeries{Dates: dates, Rates: []float64{100, 95}, Cumulatives: []float64{100, 195}}
		assert.NoError(t, s.Validate())
		assert.False(t, s.HasPressures())
	})

	t.Run("mismatched pressures are tolerated", func(t *testing.T) {
		s := ProductionSeries{
			Dates:       dates,
			Rates:       []float64{100, 95},
			Cumulatives: []float64{100, 195},
			Pressures:   []float64{4500},
		}
		assert.NoError(t, s.Validate())
		assert.False(t, s.HasPressures())
	})

	t.Run("empty series is a shape error", func(t *testing.T) {
		s := ProductionSeries{}
		assert.True(t, IsDataShapeError(s.Validate()))
	})

	t.Run("mismatched required arrays are shape errors", func(t *testing.T) {
		s := ProductionSeries{Dates: dates, Rates: []float64{100}, Cumulatives: []float64{100, 195}}
		assert.True(t, IsDataShapeError(s.Validate()))

		s = ProductionSeries{Dates: dates, Rates: []float64{100, 95}, Cumulatives: []float64{100}}
		assert.True(t, IsDataShapeError(s.Validate()))
	})
}

func TestWellStaticPropertiesValidate(t *testing.T) {
	props := DefaultWellProperties(5000)
	require.NoError(t, props.Validate())

	props.TotalCompressibility = -1e-5
	err := props.Validate()
	require.Error(t, err)
	assert.True(t, IsDataShapeError(err))
}

func TestDefaultWellProperties(t *testing.T) {
	assert.Equal(t, 5000.0, DefaultWellProperties(0).InitialPressure)
	assert.Equal(t, 5000.0, DefaultWellProperties(-100).InitialPressure)
	assert.Equal(t, 4200.0, DefaultWellProperties(4200).InitialPressure)
}

func TestBlasingameOutputRenderable(t *testing.T) {
	assert.False(t, (&BlasingameOutput{}).Renderable())
	assert.False(t, (&BlasingameOutput{MaterialBalanceTime: []float64{1}}).Renderable())
	assert.True(t, (&BlasingameOutput{MaterialBalanceTime: []float64{1, 2}}).Renderable())
}

func TestIsDataShapeError(t *testing.T) {
	direct := &DataShapeError{Reason: "rates length 3 does not match dates length 4"}
	assert.True(t, IsDataShapeError(direct))
	assert.True(t, IsDataShapeError(fmt.Errorf("import failed: %w", direct)))
	assert.False(t, IsDataShapeError(ErrDegenerateSeries))
	assert.False(t, IsDataShapeError(nil))
	assert.Contains(t, direct.Error(), "invalid data shape")
}
