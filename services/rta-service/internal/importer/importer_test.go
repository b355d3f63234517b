package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

func testImporter() *Importer {
	return NewImporter(logger.New("importer-test", "error", "text"))
}

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		wantErr bool
		date    int
		rate    int
		cum     int
		press   int
	}{
		{
			name:   "canonical names",
			header: []string{"date", "rate", "cumulative", "pressure"},
			date:   0, rate: 1, cum: 2, press: 3,
		},
		{
			name:   "aliases with mixed case and separators",
			header: []string{"Prod_Date", "Oil Rate", "Cum-Prod", "BHP"},
			date:   0, rate: 1, cum: 2, press: 3,
		},
		{
			name:   "pressure optional",
			header: []string{"day", "qo", "np"},
			date:   0, rate: 1, cum: 2, press: -1,
		},
		{
			name:   "shuffled order with extra columns",
			header: []string{"comment", "np", "pwf", "report date", "dailyrate"},
			date:   3, rate: 4, cum: 1, press: 2,
		},
		{
			name:    "missing rate column",
			header:  []string{"date", "cumulative"},
			wantErr: true,
		},
		{
			name:    "empty header",
			header:  []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := detectColumns(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsDataShapeError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.date, cols.date)
			assert.Equal(t, tt.rate, cols.rate)
			assert.Equal(t, tt.cum, cols.cumulative)
			assert.Equal(t, tt.press, cols.pressure)
		})
	}
}

func TestImportCSV(t *testing.T) {
	im := testImporter()

	t.Run("well-formed table with pressures", func(t *testing.T) {
		csvData := `date,rate,cumulative,pressure
2024-01-01,1000,1000,4500
2024-01-02,950,1950,4450
2024-01-03,900,2850,4400
`
		result, err := im.ImportCSV(strings.NewReader(csvData))
		require.NoError(t, err)

		assert.Equal(t, 3, result.Series.Len())
		assert.Equal(t, 0, result.SkippedRows)
		assert.True(t, result.Series.HasPressures())
		assert.Equal(t, []float64{1000, 950, 900}, result.Series.Rates)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), result.Series.Dates[0])
		assert.NotZero(t, result.ContentHash)
	})

	t.Run("unparseable rows are skipped and counted", func(t *testing.T) {
		csvData := `date,rate,cumulative
2024-01-01,1000,1000
not-a-date,950,1950
2024-01-03,abc,2850
2024-01-04,850,3700
`
		result, err := im.ImportCSV(strings.NewReader(csvData))
		require.NoError(t, err)

		assert.Equal(t, 2, result.Series.Len())
		assert.Equal(t, 2, result.SkippedRows)
	})

	t.Run("one bad pressure cell drops the whole pressure series", func(t *testing.T) {
		csvData := `date,rate,cumulative,pressure
2024-01-01,1000,1000,4500
2024-01-02,950,1950,
2024-01-03,900,2850,4400
`
		result, err := im.ImportCSV(strings.NewReader(csvData))
		require.NoError(t, err)

		assert.Equal(t, 3, result.Series.Len())
		assert.False(t, result.Series.HasPressures())
		assert.Empty(t, result.Series.Pressures)
	})

	t.Run("thousands separators in numbers", func(t *testing.T) {
		csvData := `date,rate,cumulative
2024-01-01,"1,000","1,000"
2024-01-02,"950","1,950"
`
		result, err := im.ImportCSV(strings.NewReader(csvData))
		require.NoError(t, err)

		assert.Equal(t, []float64{1000, 950}, result.Series.Rates)
		assert.Equal(t, []float64{1000, 1950}, result.Series.Cumulatives)
	})

	t.Run("non-chronological dates fail", func(t *testing.T) {
		csvData := `date,rate,cumulative
2024-01-05,1000,1000
2024-01-02,950,1950
`
		_, err := im.ImportCSV(strings.NewReader(csvData))
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})

	t.Run("decreasing cumulative fails", func(t *testing.T) {
		csvData := `date,rate,cumulative
2024-01-01,1000,2000
2024-01-02,950,1500
`
		_, err := im.ImportCSV(strings.NewReader(csvData))
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})

	t.Run("all rows unparseable fails", func(t *testing.T) {
		csvData := `date,rate,cumulative
x,y,z
`
		_, err := im.ImportCSV(strings.NewReader(csvData))
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := im.ImportCSV(strings.NewReader(""))
		require.Error(t, err)
		assert.True(t, models.IsDataShapeError(err))
	})
}

func TestContentHash(t *testing.T) {
	im := testImporter()

	csvData := `date,rate,cumulative
2024-01-01,1000,1000
2024-01-02,950,1950
`
	first, err := im.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	second, err := im.ImportCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, first.ContentHash, second.ContentHash)

	changed, err := im.ImportCSV(strings.NewReader(strings.Replace(csvData, "950", "951", 1)))
	require.NoError(t, err)
	assert.NotEqual(t, first.ContentHash, changed.ContentHash)
}

func TestFromSeries(t *testing.T) {
	series := &models.ProductionSeries{
		Dates:       []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Rates:       []float64{100},
		Cumulatives: []float64{100},
	}

	result := FromSeries(series)

	assert.Equal(t, *series, result.Series)
	assert.Equal(t, 0, result.SkippedRows)
	assert.NotZero(t, result.ContentHash)
}
