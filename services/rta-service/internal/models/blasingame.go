package models

// BlasingameOutput is the result of one Blasingame calculation. The four
// diagnostic arrays (MaterialBalanceTime, QDd, QDdi, QDdid) are parallel,
// share the same length after cleaning, and contain only finite positive
// values. Times, Rates and PressureDrops keep the full input length for
// reference plotting. The struct is never mutated after it is produced.
type BlasingameOutput struct {
	MaterialBalanceTime []float64 `bson:"material_balance_time" json:"material_balance_time"` // days
	QDd                 []float64 `bson:"q_dd" json:"q_dd"`                                   // rate / drawdown
	QDdi                []float64 `bson:"q_ddi" json:"q_ddi"`                                 // rate integral
	QDdid               []float64 `bson:"q_ddid" json:"q_ddid"`                               // rate integral derivative

	// TeDimensionless is declared for parity with the matching step but is
	// not populated by Calculate; dimensionless time needs match parameters
	// and is produced inside the type-curve generation.
	TeDimensionless []float64 `bson:"te_dimensionless,omitempty" json:"te_dimensionless,omitempty"`

	PressureDrops []float64 `bson:"pressure_drops" json:"pressure_drops"` // psi, full input length
	Times         []float64 `bson:"times" json:"times"`                   // elapsed days, full input length
	Rates         []float64 `bson:"rates" json:"rates"`                   // full input length

	// MeasuredPressure reports whether drawdown came from a measured
	// pressure series (true) or from the estimated-depletion fallback.
	MeasuredPressure bool `bson:"measured_pressure" json:"measured_pressure"`
}

// CleanedLen returns the number of points surviving the finite-and-positive
// cleanup.
func (o *BlasingameOutput) CleanedLen() int {
	return len(o.MaterialBalanceTime)
}

// Renderable reports whether enough cleaned points survived to draw or match
// a curve. Fewer than two points is a degenerate, not erroneous, result.
func (o *BlasingameOutput) Renderable() bool {
	return o.CleanedLen() >= 2
}

// FlowRegime labels a qualitative production-behavior phase.
type FlowRegime string

const (
	RegimeInfiniteActing    FlowRegime = "infinite-acting"
	RegimeTransition        FlowRegime = "transition"
	RegimeBoundaryDominated FlowRegime = "boundary-dominated"
	RegimeDepletion         FlowRegime = "depletion"
)

// Confidence grades a diagnostic result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// FlowRegimeSegment is a contiguous index range of the cleaned diagnostic
// arrays classified into a single flow regime. Segments returned by the
// classifier are contiguous, non-overlapping and cover the whole series.
type FlowRegimeSegment struct {
	StartIndex      int        `bson:"start_index" json:"start_index"`
	EndIndex        int        `bson:"end_index" json:"end_index"`
	Regime          FlowRegime `bson:"regime" json:"regime"`
	DiagnosticSlope float64    `bson:"diagnostic_slope" json:"diagnostic_slope"`
	Confidence      Confidence `bson:"confidence" json:"confidence"`
}

// MatchParameters is the reservoir parameter triple a user adjusts during
// interactive matching.
type MatchParameters struct {
	KH           float64 `bson:"kh" json:"kh"`                       // md-ft
	SkinFactor   float64 `bson:"skin_factor" json:"skin_factor"`     // dimensionless
	DrainageArea float64 `bson:"drainage_area" json:"drainage_area"` // acres
}

// Validate rejects parameter values that would make the dimensionless-time
// conversion meaningless. Skin may be any real number.
func (p *MatchParameters) Validate() error {
	if p.KH <= 0 {
		return &DataShapeError{Reason: "kh must be positive"}
	}
	if p.DrainageArea <= 0 {
		return &DataShapeError{Reason: "drainage area must be positive"}
	}
	return nil
}

// TheoreticalCurves is a synthetic decline model evaluated on the same
// material-balance-time grid as a calculated BlasingameOutput.
type TheoreticalCurves struct {
	DimensionlessTime []float64 `bson:"dimensionless_time" json:"dimensionless_time"`
	QDd               []float64 `bson:"q_dd" json:"q_dd"`
	QDdi              []float64 `bson:"q_ddi" json:"q_ddi"`
	QDdid             []float64 `bson:"q_ddid" json:"q_ddid"`
}

// MatchQuality reports goodness of fit between a calculated and a
// theoretical normalized-rate curve. R2 is clamped to [0, 1].
type MatchQuality struct {
	R2         float64 `bson:"r2" json:"r2"`
	RMSE       float64 `bson:"rmse" json:"rmse"`
	MAE        float64 `bson:"mae" json:"mae"`
	PointCount int     `bson:"point_count" json:"point_count"`
}
