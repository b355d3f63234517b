package models

import (
	"fmt"
	"time"
)

// ProductionSeries holds the raw production history of a single well as
// parallel arrays. All arrays except Pressures must have the same length;
// Pressures is optional and is ignored by the engine when its length does
// not match (see the pressure fallback in the Blasingame calculation).
type ProductionSeries struct {
	Dates       []time.Time `bson:"dates" json:"dates"`
	Rates       []float64   `bson:"rates" json:"rates"`
	Cumulatives []float64   `bson:"cumulatives" json:"cumulatives"`
	Pressures   []float64   `bson:"pressures,omitempty" json:"pressures,omitempty"`
}

// Len returns the number of production points.
func (s *ProductionSeries) Len() int {
	return len(s.Dates)
}

// HasPressures reports whether a usable measured pressure series is present.
func (s *ProductionSeries) HasPressures() bool {
	return len(s.Pressures) == len(s.Dates) && len(s.Pressures) > 0
}

// Validate enforces the parallel-array invariant on the required arrays.
// A pressure series of mismatched length is not an error; the engine falls
// back to an estimated drawdown in that case.
func (s *ProductionSeries) Validate() error {
	n := len(s.Dates)
	if n == 0 {
		return &DataShapeError{Reason: "production series is empty"}
	}
	if len(s.Rates) != n {
		return &DataShapeError{Reason: fmt.Sprintf("rates length %d does not match dates length %d", len(s.Rates), n)}
	}
	if len(s.Cumulatives) != n {
		return &DataShapeError{Reason: fmt.Sprintf("cumulatives length %d does not match dates length %d", len(s.Cumulatives), n)}
	}
	return nil
}

// WellStaticProperties are the static reservoir and fluid properties of a
// well. All values are positive physical quantities in oilfield units; the
// engine reads them as defaults and never mutates them.
type WellStaticProperties struct {
	InitialPressure       float64 `bson:"initial_pressure" json:"initial_pressure"`               // psi
	WellboreRadius        float64 `bson:"wellbore_radius" json:"wellbore_radius"`                 // ft
	NetPayThickness       float64 `bson:"net_pay_thickness" json:"net_pay_thickness"`             // ft
	Porosity              float64 `bson:"porosity" json:"porosity"`                               // fraction
	TotalCompressibility  float64 `bson:"total_compressibility" json:"total_compressibility"`     // 1/psi
	Viscosity             float64 `bson:"viscosity" json:"viscosity"`                             // cp
	FormationVolumeFactor float64 `bson:"formation_volume_factor" json:"formation_volume_factor"` // rb/stb
}

// Validate rejects non-positive physical quantities.
func (p *WellStaticProperties) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"initial_pressure", p.InitialPressure},
		{"wellbore_radius", p.WellboreRadius},
		{"net_pay_thickness", p.NetPayThickness},
		{"porosity", p.Porosity},
		{"total_compressibility", p.TotalCompressibility},
		{"viscosity", p.Viscosity},
		{"formation_volume_factor", p.FormationVolumeFactor},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return &DataShapeError{Reason: fmt.Sprintf("%s must be positive, got %g", c.name, c.value)}
		}
	}
	return nil
}

// DefaultWellProperties returns a conventional set of static properties used
// when a data source supplies production history without well metadata.
func DefaultWellProperties(initialPressure float64) WellStaticProperties {
	if initialPressure <= 0 {
		initialPressure = 5000
	}
	return WellStaticProperties{
		InitialPressure:       initialPressure,
		WellboreRadius:        0.35,
		NetPayThickness:       50,
		Porosity:              0.12,
		TotalCompressibility:  1e-5,
		Viscosity:             0.8,
		FormationVolumeFactor: 1.2,
	}
}
