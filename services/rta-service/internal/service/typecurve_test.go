package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

func outputWithTe(te []float64) *models.BlasingameOutput {
	return &models.BlasingameOutput{MaterialBalanceTime: te}
}

func TestMatchParametersValidate(t *testing.T) {
	valid := models.MatchParameters{KH: 500, SkinFactor: 2, DrainageArea: 160}
	require.NoError(t, valid.Validate())

	badKH := valid
	badKH.KH = 0
	assert.True(t, models.IsDataShapeError(badKH.Validate()))

	badArea := valid
	badArea.DrainageArea = -10
	assert.True(t, models.IsDataShapeError(badArea.Validate()))

	negativeSkin := valid
	negativeSkin.SkinFactor = -4
	assert.NoError(t, negativeSkin.Validate())
}

func TestGenerateTypeCurves(t *testing.T) {
	matcher := NewTypeCurveMatcher()

	t.Run("dimensionless time conversion", func(t *testing.T) {
		te := []float64{1, 10, 100}
		params := models.MatchParameters{KH: 500, SkinFactor: 0, DrainageArea: 160}

		curves, err := matcher.GenerateTypeCurves(outputWithTe(te), params)
		require.NoError(t, err)

		require.Len(t, curves.DimensionlessTime, 3)
		for i, v := range te {
			expected := 0.0002637 * 500 * v / 160
			assert.InDelta(t, expected, curves.DimensionlessTime[i], 1e-15, "index %d", i)
		}
	})

	t.Run("theoretical rate follows transient decline with skin", func(t *testing.T) {
		te := []float64{1, 10, 100, 1000}
		params := models.MatchParameters{KH: 1000, SkinFactor: 2, DrainageArea: 100}

		curves, err := matcher.GenerateTypeCurves(outputWithTe(te), params)
		require.NoError(t, err)

		skinEffect := math.Exp(2.0)
		for i := range te {
			tD := 0.0002637 * 1000 * te[i] / 100
			expected := math.Max(1/(math.Sqrt(tD)+0.1*skinEffect), 0.01)
			assert.InDelta(t, expected, curves.QDd[i], 1e-12, "index %d", i)
		}
	})

	t.Run("rate floor engages at late time", func(t *testing.T) {
		te := []float64{1e9, 1e10}
		params := models.MatchParameters{KH: 1000, SkinFactor: 0, DrainageArea: 1}

		curves, err := matcher.GenerateTypeCurves(outputWithTe(te), params)
		require.NoError(t, err)

		assert.Equal(t, 0.01, curves.QDd[0])
		assert.Equal(t, 0.01, curves.QDd[1])
	})

	t.Run("skin is capped before exponentiation", func(t *testing.T) {
		te := []float64{1, 10, 100}

		atCap, err := matcher.GenerateTypeCurves(outputWithTe(te), models.MatchParameters{KH: 500, SkinFactor: 5, DrainageArea: 160})
		require.NoError(t, err)
		overCap, err := matcher.GenerateTypeCurves(outputWithTe(te), models.MatchParameters{KH: 500, SkinFactor: 50, DrainageArea: 160})
		require.NoError(t, err)

		assert.Equal(t, atCap.QDd, overCap.QDd)
	})

	t.Run("integral starts at zero and is non-decreasing", func(t *testing.T) {
		te := []float64{1, 5, 25, 125, 625}
		params := models.MatchParameters{KH: 800, SkinFactor: 1, DrainageArea: 320}

		curves, err := matcher.GenerateTypeCurves(outputWithTe(te), params)
		require.NoError(t, err)

		assert.Equal(t, 0.0, curves.QDdi[0])
		for i := 1; i < len(te); i++ {
			assert.GreaterOrEqual(t, curves.QDdi[i], curves.QDdi[i-1], "index %d", i)
		}
	})

	t.Run("derivative endpoints copy their interior neighbours", func(t *testing.T) {
		te := []float64{1, 10, 100, 1000, 10000}
		params := models.MatchParameters{KH: 500, SkinFactor: 0, DrainageArea: 160}

		curves, err := matcher.GenerateTypeCurves(outputWithTe(te), params)
		require.NoError(t, err)

		assert.Equal(t, curves.QDdid[1], curves.QDdid[0])
		assert.Equal(t, curves.QDdid[3], curves.QDdid[4])
	})

	t.Run("fewer than three points yields a zero derivative", func(t *testing.T) {
		curves, err := matcher.GenerateTypeCurves(outputWithTe([]float64{1, 10}), models.MatchParameters{KH: 500, DrainageArea: 160})
		require.NoError(t, err)

		assert.Equal(t, []float64{0, 0}, curves.QDdid)
	})

	t.Run("invalid parameters are rejected", func(t *testing.T) {
		_, err := matcher.GenerateTypeCurves(outputWithTe([]float64{1}), models.MatchParameters{KH: 0, DrainageArea: 160})
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})
}

func TestCalculateMatchQuality(t *testing.T) {
	matcher := NewTypeCurveMatcher()

	t.Run("perfect match", func(t *testing.T) {
		data := []float64{2.0, 1.5, 1.1, 0.8, 0.6}

		quality := matcher.CalculateMatchQuality(data, data)

		assert.Equal(t, 1.0, quality.R2)
		assert.Equal(t, 0.0, quality.RMSE)
		assert.Equal(t, 0.0, quality.MAE)
		assert.Equal(t, 5, quality.PointCount)
	})

	t.Run("zero variance in calculated values reports zero R2 not NaN", func(t *testing.T) {
		calc := []float64{1.0, 1.0, 1.0, 1.0}
		theo := []float64{0.5, 0.6, 0.7, 0.8}

		quality := matcher.CalculateMatchQuality(calc, theo)

		assert.Equal(t, 0.0, quality.R2)
		assert.False(t, math.IsNaN(quality.RMSE))
		assert.Greater(t, quality.RMSE, 0.0)
	})

	t.Run("anti-correlated fit is clamped to zero", func(t *testing.T) {
		calc := []float64{1, 2, 3, 4, 5}
		theo := []float64{5, 4, 3, 2, 1}

		quality := matcher.CalculateMatchQuality(calc, theo)

		assert.Equal(t, 0.0, quality.R2)
		assert.Greater(t, quality.RMSE, 0.0)
	})

	t.Run("non-finite and non-positive pairs are dropped", func(t *testing.T) {
		calc := []float64{2.0, math.NaN(), 1.0, -1.0, 0.5}
		theo := []float64{2.0, 1.0, math.Inf(1), 1.0, 0.5}

		quality := matcher.CalculateMatchQuality(calc, theo)

		assert.Equal(t, 2, quality.PointCount)
		assert.Equal(t, 1.0, quality.R2)
	})

	t.Run("no valid pairs yields the zero quality", func(t *testing.T) {
		quality := matcher.CalculateMatchQuality([]float64{-1, 0}, []float64{1, 1})
		assert.Equal(t, models.MatchQuality{}, quality)
	})

	t.Run("length mismatch compares the common prefix", func(t *testing.T) {
		quality := matcher.CalculateMatchQuality([]float64{1, 2, 3}, []float64{1, 2})
		assert.Equal(t, 2, quality.PointCount)
	})
}

func TestScore(t *testing.T) {
	matcher := NewTypeCurveMatcher()

	output := &models.BlasingameOutput{
		MaterialBalanceTime: []float64{1, 10, 100, 1000},
		QDd:                 []float64{1.5, 1.1, 0.7, 0.4},
	}
	params := models.MatchParameters{KH: 500, SkinFactor: 1, DrainageArea: 160}

	curves, quality, err := matcher.Score(output, params)
	require.NoError(t, err)

	require.NotNil(t, curves)
	assert.Len(t, curves.QDd, 4)
	assert.Equal(t, 4, quality.PointCount)
	assert.GreaterOrEqual(t, quality.R2, 0.0)
	assert.LessOrEqual(t, quality.R2, 1.0)

	_, _, err = matcher.Score(output, models.MatchParameters{KH: -1, DrainageArea: 160})
	require.Error(t, err)
}
