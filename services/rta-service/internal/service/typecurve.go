package service

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

const (
	// dimensionlessTimeConstant converts kh·te/A to dimensionless time in
	// oilfield units.
	dimensionlessTimeConstant = 0.0002637

	// skinCap bounds the skin factor before exponentiation for numerical
	// stability. Negative skin is not capped.
	skinCap = 5.0

	// theoreticalRateFloor keeps the synthetic normalized rate away from
	// zero so the log-log plot stays defined.
	theoreticalRateFloor = 0.01
)

// TypeCurveMatcher synthesizes a theoretical curve family for a parameter
// triple and scores it against a calculated Blasingame output. Stateless;
// the interactive loop calls it on every slider change, so both operations
// stay a single allocation-cheap pass over the series.
type TypeCurveMatcher struct{}

func NewTypeCurveMatcher() *TypeCurveMatcher {
	return &TypeCurveMatcher{}
}

// GenerateTypeCurves evaluates a simplified transient-flow-with-skin decline
// model on the calculated material-balance-time grid. The closed form is an
// intentional approximation, not a full analytical Blasingame solution.
func (m *TypeCurveMatcher) GenerateTypeCurves(output *models.BlasingameOutput, params models.MatchParameters) (*models.TheoreticalCurves, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	te := output.MaterialBalanceTime
	n := len(te)

	tD := make([]float64, n)
	for i := 0; i < n; i++ {
		tD[i] = dimensionlessTimeConstant * params.KH * te[i] / params.DrainageArea
	}

	skinEffect := math.Exp(math.Min(params.SkinFactor, skinCap))

	qDd := make([]float64, n)
	for i := 0; i < n; i++ {
		if tD[i] <= 0 {
			continue
		}
		qDd[i] = math.Max(1/(math.Sqrt(tD[i])+0.1*skinEffect), theoreticalRateFloor)
	}

	qDdi := make([]float64, n)
	for i := 1; i < n; i++ {
		qDdi[i] = qDdi[i-1] + (qDd[i]+qDd[i-1])/2*(tD[i]-tD[i-1])
	}

	// Central differences of the integral, with both endpoints copying their
	// nearest interior neighbour rather than using one-sided differences.
	qDdid := make([]float64, n)
	if n >= 3 {
		for i := 1; i < n-1; i++ {
			qDdid[i] = (qDdi[i+1] - qDdi[i-1]) / (tD[i+1] - tD[i-1])
		}
		qDdid[0] = qDdid[1]
		qDdid[n-1] = qDdid[n-2]
	}

	return &models.TheoreticalCurves{
		DimensionlessTime: tD,
		QDd:               qDd,
		QDdi:              qDdi,
		QDdid:             qDdid,
	}, nil
}

// CalculateMatchQuality compares calculated and theoretical normalized rates
// pointwise. Pairs where either side is non-finite or non-positive are
// dropped before scoring. R2 is clamped to [0, 1]: a fit worse than the mean
// prediction reports 0 rather than a negative value.
func (m *TypeCurveMatcher) CalculateMatchQuality(calculated, theoretical []float64) models.MatchQuality {
	n := len(calculated)
	if len(theoretical) < n {
		n = len(theoretical)
	}

	calc := make([]float64, 0, n)
	theo := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(calculated[i]) && calculated[i] > 0 && isFinite(theoretical[i]) && theoretical[i] > 0 {
			calc = append(calc, calculated[i])
			theo = append(theo, theoretical[i])
		}
	}

	count := len(calc)
	if count == 0 {
		return models.MatchQuality{}
	}

	mean := stat.Mean(calc, nil)

	var ssRes, ssTot, absSum float64
	for i := 0; i < count; i++ {
		residual := calc[i] - theo[i]
		ssRes += residual * residual
		ssTot += (calc[i] - mean) * (calc[i] - mean)
		absSum += math.Abs(residual)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		r2 = 0
	}
	if r2 > 1 {
		r2 = 1
	}

	return models.MatchQuality{
		R2:         r2,
		RMSE:       math.Sqrt(ssRes / float64(count)),
		MAE:        absSum / float64(count),
		PointCount: count,
	}
}

// Score is the single-call form of the interactive matching loop: generate
// the theoretical family for params and score it against the calculated
// normalized rate.
func (m *TypeCurveMatcher) Score(output *models.BlasingameOutput, params models.MatchParameters) (*models.TheoreticalCurves, models.MatchQuality, error) {
	curves, err := m.GenerateTypeCurves(output, params)
	if err != nil {
		return nil, models.MatchQuality{}, err
	}
	return curves, m.CalculateMatchQuality(output.QDd, curves.QDd), nil
}
