package service

import (
	"math"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// Field-unit constants of the Blasingame transform.
const (
	// leadingShutInTimeFloor replaces material balance time for a shut-in
	// first point. It avoids both a divide-by-zero and a degenerate zero
	// time that would break the log-log derivative.
	leadingShutInTimeFloor = 0.001

	// minDrawdown is the minimum accepted pressure drawdown in psi.
	// Near-zero or negative drawdowns would blow up the normalized rate.
	minDrawdown = 100.0

	// fallbackDepletionRatio estimates average drawdown as a fraction of
	// initial pressure when no measured pressure series is available. It is
	// a crude diagnostic-only assumption, not a physically derived value.
	fallbackDepletionRatio = 0.35

	// derivativeSmoothingWindow is the moving-average window applied before
	// numerical differentiation to suppress field-data noise.
	derivativeSmoothingWindow = 5
)

// BlasingameEngine derives the Blasingame diagnostic curves from raw
// production data. It is stateless: every Calculate call recomputes the full
// series from scratch and the caller owns the result.
type BlasingameEngine struct{}

func NewBlasingameEngine() *BlasingameEngine {
	return &BlasingameEngine{}
}

// Calculate runs the Blasingame transform pipeline: material balance time,
// pressure normalization, rate integral, smoothed rate integral derivative,
// and a joint finite-and-positive cleanup of the four diagnostic arrays.
//
// Shape violations and non-positive well properties fail fast with a
// DataShapeError. A series whose cleanup leaves fewer than two points is not
// an error; the output reports Renderable() == false and consumers show an
// empty state.
func (e *BlasingameEngine) Calculate(series *models.ProductionSeries, props *models.WellStaticProperties) (*models.BlasingameOutput, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	times := DatesToDays(series.Dates)

	te := materialBalanceTimes(series.Rates, series.Cumulatives)

	pressureDrops, measured := e.pressureDrops(series, props)

	qDd := make([]float64, n)
	for i := 0; i < n; i++ {
		qDd[i] = series.Rates[i] / pressureDrops[i]
	}

	// Rate integral: time-averaged normalized rate, the standard Blasingame
	// smoothing step.
	integral := TrapezoidalIntegrate(te, qDd)
	qDdi := make([]float64, n)
	for i := 0; i < n; i++ {
		if te[i] == 0 {
			qDdi[i] = 0
			continue
		}
		qDdi[i] = integral[i] / te[i]
	}

	smoothed := MovingAverage(qDdi, derivativeSmoothingWindow)
	qDdid := LogDerivative(te, smoothed)

	cleaned := FilterPositive(te, qDd, qDdi, qDdid)

	return &models.BlasingameOutput{
		MaterialBalanceTime: cleaned[0],
		QDd:                 cleaned[1],
		QDdi:                cleaned[2],
		QDdid:               cleaned[3],
		PressureDrops:       pressureDrops,
		Times:               times,
		Rates:               append([]float64(nil), series.Rates...),
		MeasuredPressure:    measured,
	}, nil
}

// materialBalanceTimes computes te = cumulative/rate. During shut-in the
// last value carries forward: the equivalent constant-rate time freezes while
// the well is not flowing. A shut-in first point gets the small floor instead
// of zero.
func materialBalanceTimes(rates, cumulatives []float64) []float64 {
	te := make([]float64, len(rates))
	for i := range rates {
		if rates[i] > 0 {
			te[i] = cumulatives[i] / rates[i]
			continue
		}
		if i == 0 {
			te[i] = leadingShutInTimeFloor
		} else {
			te[i] = te[i-1]
		}
	}
	return te
}

// pressureDrops computes the per-point drawdown. With a measured pressure
// series of matching length each drawdown is clamped to minDrawdown from
// below; otherwise a constant estimated depletion of the initial pressure is
// used and the result is flagged as unmeasured.
func (e *BlasingameEngine) pressureDrops(series *models.ProductionSeries, props *models.WellStaticProperties) ([]float64, bool) {
	n := series.Len()
	drops := make([]float64, n)

	if series.HasPressures() {
		for i := 0; i < n; i++ {
			drops[i] = math.Max(props.InitialPressure-series.Pressures[i], minDrawdown)
		}
		return drops, true
	}

	estimate := fallbackDepletionRatio * props.InitialPressure
	for i := 0; i < n; i++ {
		drops[i] = estimate
	}
	return drops, false
}
