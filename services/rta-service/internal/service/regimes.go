package service

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// Log-log slope thresholds separating the four flow regimes.
const (
	infiniteActingSlope    = -0.3
	boundaryDominatedSlope = -0.7
	depletionSlope         = -1.3
)

// RegimeClassifier segments a cleaned derivative curve into flow regime
// intervals by its point-wise log-log slope.
type RegimeClassifier struct{}

func NewRegimeClassifier() *RegimeClassifier {
	return &RegimeClassifier{}
}

// IdentifyFlowRegimes walks the derivative curve left to right and opens a
// new segment whenever the slope-classified regime changes. The returned
// segments are contiguous, non-overlapping, in time order, and cover the
// whole input; the list is never empty for non-empty input. Each segment
// carries the arithmetic mean of its finite slopes and a constant medium
// confidence.
func (c *RegimeClassifier) IdentifyFlowRegimes(materialBalanceTime, qDdid []float64) ([]models.FlowRegimeSegment, error) {
	if len(materialBalanceTime) != len(qDdid) {
		return nil, &models.DataShapeError{Reason: "material balance time and derivative series lengths differ"}
	}

	n := len(materialBalanceTime)
	if n == 0 {
		return []models.FlowRegimeSegment{}, nil
	}

	slopes := logLogSlopes(materialBalanceTime, qDdid)

	segments := make([]models.FlowRegimeSegment, 0, 4)
	start := 0
	current := classifySlope(slopes[0])

	for i := 1; i < n; i++ {
		regime := classifySlope(slopes[i])
		if regime == current {
			continue
		}
		segments = append(segments, newSegment(start, i-1, current, slopes))
		start = i
		current = regime
	}
	segments = append(segments, newSegment(start, n-1, current, slopes))

	return segments, nil
}

// logLogSlopes computes the point-wise slope d(log10 y)/d(log10 x) with a
// forward difference at the first point, central differences inside and a
// backward difference at the last point. This intentionally works in log10
// space on both axes and is not the kernel's dy/d(ln x) helper.
func logLogSlopes(x, y []float64) []float64 {
	n := len(x)
	logX := make([]float64, n)
	logY := make([]float64, n)
	for i := 0; i < n; i++ {
		logX[i] = math.Log10(x[i])
		logY[i] = math.Log10(y[i])
	}

	slopes := make([]float64, n)
	if n < 2 {
		return slopes
	}

	slopes[0] = (logY[1] - logY[0]) / (logX[1] - logX[0])
	for i := 1; i < n-1; i++ {
		slopes[i] = (logY[i+1] - logY[i-1]) / (logX[i+1] - logX[i-1])
	}
	slopes[n-1] = (logY[n-1] - logY[n-2]) / (logX[n-1] - logX[n-2])

	return slopes
}

// classifySlope maps a log-log slope to a flow regime. The current point's
// raw slope is used, not a smoothed one.
func classifySlope(slope float64) models.FlowRegime {
	switch {
	case slope > infiniteActingSlope:
		return models.RegimeInfiniteActing
	case slope >= boundaryDominatedSlope:
		return models.RegimeTransition
	case slope >= depletionSlope:
		return models.RegimeBoundaryDominated
	default:
		return models.RegimeDepletion
	}
}

func newSegment(start, end int, regime models.FlowRegime, slopes []float64) models.FlowRegimeSegment {
	finite := make([]float64, 0, end-start+1)
	for i := start; i <= end; i++ {
		if isFinite(slopes[i]) {
			finite = append(finite, slopes[i])
		}
	}

	var diagnostic float64
	if len(finite) > 0 {
		diagnostic = stat.Mean(finite, nil)
	}

	return models.FlowRegimeSegment{
		StartIndex:      start,
		EndIndex:        end,
		Regime:          regime,
		DiagnosticSlope: diagnostic,
		// No variable confidence scoring is performed; medium is a known
		// simplification of the current classifier.
		Confidence: models.ConfidenceMedium,
	}
}
