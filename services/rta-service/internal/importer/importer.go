package importer

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// Column alias sets for header detection. Matching is case-insensitive and
// ignores spaces, underscores and dashes.
var (
	dateAliases       = []string{"date", "proddate", "productiondate", "reportdate", "day", "time"}
	rateAliases       = []string{"rate", "oilrate", "gasrate", "qo", "qg", "q", "prodrate", "dailyrate"}
	cumulativeAliases = []string{"cumulative", "cum", "cumprod", "np", "gp", "cumulativeproduction", "cumoil", "cumgas"}
	pressureAliases   = []string{"pressure", "pwf", "bhp", "thp", "flowingpressure", "bottomholepressure"}
)

// Accepted date cell layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02.01.2006",
	"2-Jan-2006",
}

// ImportResult is a parsed and validated production table.
type ImportResult struct {
	Series      models.ProductionSeries
	SkippedRows int
	ContentHash uint64
}

// Importer parses delimited and spreadsheet production tables into a
// validated ProductionSeries.
type Importer struct {
	log logger.Logger
}

func NewImporter(log logger.Logger) *Importer {
	return &Importer{log: log}
}

// FromSeries wraps an already-assembled series (typically fetched from a
// data provider) in an ImportResult so it flows through the same dedupe and
// storage path as file imports.
func FromSeries(series *models.ProductionSeries) *ImportResult {
	return &ImportResult{
		Series:      *series,
		ContentHash: hashSeries(series),
	}
}

// columnMap holds detected column indices; -1 means not found.
type columnMap struct {
	date       int
	rate       int
	cumulative int
	pressure   int
}

func detectColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, rate: -1, cumulative: -1, pressure: -1}

	for i, raw := range header {
		name := normalizeHeader(raw)
		switch {
		case cols.date == -1 && matchesAlias(name, dateAliases):
			cols.date = i
		case cols.rate == -1 && matchesAlias(name, rateAliases):
			cols.rate = i
		case cols.cumulative == -1 && matchesAlias(name, cumulativeAliases):
			cols.cumulative = i
		case cols.pressure == -1 && matchesAlias(name, pressureAliases):
			cols.pressure = i
		}
	}

	if cols.date == -1 || cols.rate == -1 || cols.cumulative == -1 {
		return cols, &models.DataShapeError{
			Reason: fmt.Sprintf("required columns not found (date=%t rate=%t cumulative=%t)",
				cols.date != -1, cols.rate != -1, cols.cumulative != -1),
		}
	}

	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(h)
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

// assemble converts raw string rows to a ProductionSeries. Rows whose
// required cells do not parse are skipped and counted, never fatal; shape
// violations of the whole table (non-chronological dates, decreasing
// cumulative) are caller bugs and fail.
func (im *Importer) assemble(rows [][]string, cols columnMap) (*ImportResult, error) {
	series := models.ProductionSeries{}
	skipped := 0

	for _, row := range rows {
		date, ok := parseDateCell(row, cols.date)
		if !ok {
			skipped++
			continue
		}
		rate, ok := parseFloatCell(row, cols.rate)
		if !ok {
			skipped++
			continue
		}
		cumulative, ok := parseFloatCell(row, cols.cumulative)
		if !ok {
			skipped++
			continue
		}

		series.Dates = append(series.Dates, date)
		series.Rates = append(series.Rates, rate)
		series.Cumulatives = append(series.Cumulatives, cumulative)

		if cols.pressure != -1 {
			if pressure, ok := parseFloatCell(row, cols.pressure); ok {
				series.Pressures = append(series.Pressures, pressure)
			} else {
				// A single missing pressure cell breaks the parallel-array
				// contract for the optional series; drop it entirely and let
				// the engine use its fallback drawdown.
				series.Pressures = nil
				cols.pressure = -1
			}
		}
	}

	if len(series.Dates) == 0 {
		return nil, &models.DataShapeError{Reason: "no parseable data rows"}
	}

	for i := 1; i < len(series.Dates); i++ {
		if series.Dates[i].Before(series.Dates[i-1]) {
			return nil, &models.DataShapeError{Reason: fmt.Sprintf("dates not chronological at row %d", i)}
		}
		if series.Cumulatives[i] < series.Cumulatives[i-1] {
			return nil, &models.DataShapeError{Reason: fmt.Sprintf("cumulative production decreases at row %d", i)}
		}
	}

	if skipped > 0 {
		im.log.Warn("Skipped unparseable rows during import",
			logger.Field{Key: "skipped", Value: skipped},
			logger.Field{Key: "kept", Value: len(series.Dates)},
		)
	}

	return &ImportResult{
		Series:      series,
		SkippedRows: skipped,
		ContentHash: hashSeries(&series),
	}, nil
}

func parseDateCell(row []string, idx int) (time.Time, bool) {
	if idx >= len(row) {
		return time.Time{}, false
	}
	cell := strings.TrimSpace(row[idx])
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloatCell(row []string, idx int) (float64, bool) {
	if idx >= len(row) {
		return 0, false
	}
	cell := strings.TrimSpace(strings.ReplaceAll(row[idx], ",", ""))
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// hashSeries produces a content hash over the normalized series for
// duplicate-import detection.
func hashSeries(series *models.ProductionSeries) uint64 {
	digest := xxhash.New()
	buf := make([]byte, 8)

	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		digest.Write(buf)
	}

	for i := range series.Dates {
		binary.LittleEndian.PutUint64(buf, uint64(series.Dates[i].UnixNano()))
		digest.Write(buf)
		writeFloat(series.Rates[i])
		writeFloat(series.Cumulatives[i])
		if len(series.Pressures) == len(series.Dates) {
			writeFloat(series.Pressures[i])
		}
	}

	return digest.Sum64()
}
