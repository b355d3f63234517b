package models

import "errors"

// DataShapeError signals a caller bug: mismatched parallel arrays or
// non-positive required scalars. It is raised at the API boundary and never
// silently coerced.
type DataShapeError struct {
	Reason string
}

func (e *DataShapeError) Error() string {
	return "invalid data shape: " + e.Reason
}

// IsDataShapeError reports whether err is a DataShapeError.
func IsDataShapeError(err error) bool {
	var dse *DataShapeError
	return errors.As(err, &dse)
}

var (
	// ErrDegenerateSeries marks a series with too few valid points after
	// cleaning to support a curve. Consumers render an empty state instead
	// of failing.
	ErrDegenerateSeries = errors.New("too few valid points after cleaning")

	ErrDatasetNotFound = errors.New("dataset not found")
	ErrMatchNotFound   = errors.New("saved match not found")
	ErrWellNotFound    = errors.New("well not found")
	ErrDuplicateImport = errors.New("dataset with identical content already imported")
)
