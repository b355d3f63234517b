package models

import "time"

// WellDataset is an imported (or provider-fetched) production history stored
// for later analysis. ContentHash is the xxhash of the normalized series and
// is used to detect duplicate imports.
type WellDataset struct {
	ID          string               `bson:"_id" json:"id"`
	WellName    string               `bson:"well_name" json:"well_name"`
	Field       string               `bson:"field,omitempty" json:"field,omitempty"`
	Source      string               `bson:"source" json:"source"` // csv / excel / provider name
	ContentHash uint64               `bson:"content_hash" json:"content_hash"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	Series      ProductionSeries     `bson:"series" json:"series"`
	Properties  WellStaticProperties `bson:"properties" json:"properties"`
	SkippedRows int                  `bson:"skipped_rows" json:"skipped_rows"`
}

// SavedMatch is a user-accepted type-curve match for a dataset.
type SavedMatch struct {
	ID         string          `bson:"_id" json:"id"`
	DatasetID  string          `bson:"dataset_id" json:"dataset_id"`
	Parameters MatchParameters `bson:"parameters" json:"parameters"`
	Quality    MatchQuality    `bson:"quality" json:"quality"`
	CreatedBy  string          `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
}

// WellSummary is the listing shape returned by data providers.
type WellSummary struct {
	WellID    string `json:"well_id"`
	Name      string `json:"name"`
	Field     string `json:"field"`
	FluidType string `json:"fluid_type"` // oil / gas
}

// DatasetImportedEvent is published after a successful import.
type DatasetImportedEvent struct {
	DatasetID string    `json:"dataset_id"`
	WellName  string    `json:"well_name"`
	Source    string    `json:"source"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisCompletedEvent is published after a successful full analysis.
type AnalysisCompletedEvent struct {
	DatasetID     string    `json:"dataset_id"`
	CleanedPoints int       `json:"cleaned_points"`
	Renderable    bool      `json:"renderable"`
	Segments      int       `json:"segments"`
	Timestamp     time.Time `json:"timestamp"`
}
