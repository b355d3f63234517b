package models

// AnalysisResult bundles one full diagnostic pass over a dataset.
// Renderable is false when too few points survived cleaning; Segments is
// empty in that case and the presentation layer shows a placeholder state.
type AnalysisResult struct {
	DatasetID  string              `json:"dataset_id"`
	Output     *BlasingameOutput   `json:"output"`
	Segments   []FlowRegimeSegment `json:"segments"`
	Renderable bool                `json:"renderable"`
}

// MatchResult is one evaluation of the interactive matching loop.
type MatchResult struct {
	DatasetID  string             `json:"dataset_id"`
	Parameters MatchParameters    `json:"parameters"`
	Curves     *TheoreticalCurves `json:"curves"`
	Quality    MatchQuality       `json:"quality"`
}
