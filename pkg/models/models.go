package models

import "time"

// QualityAssessment represents the defects found in a table before cleaning
type QualityAssessment struct {
	Rows          int
	Columns       int
	MissingValues map[string]int
	DuplicateRows int
	ColumnTypes   map[string]string
	UniqueValues  map[string]int
	MemoryMB      float64
	Outliers      map[string]int
}

// TotalMissing returns the number of null cells across all columns
func (qa *QualityAssessment) TotalMissing() int {
	total := 0
	for _, n := range qa.MissingValues {
		total += n
	}
	return total
}

// MissingValueFix represents the result of the missing-value stage
type MissingValueFix struct {
	DroppedColumns []string
	ImputedCells   int
}

// DuplicateFix represents the result of the deduplication stage
type DuplicateFix struct {
	Removed     int
	RatePercent float64
}

// FormatFix represents the result of the format standardization stage
type FormatFix struct {
	InvalidEmails     int
	PhonesStripped    int
	PhonesReformatted int
	DatesParsed       int
	DatesCoerced      int
	StatusesRewritten int
}

// ClampBounds represents the inclusive range a numeric column was clamped into
type ClampBounds struct {
	Lower float64
	Upper float64
}

// OutlierFix represents the result of the outlier clamping stage
type OutlierFix struct {
	ClampedValues map[string]int
	Bounds        map[string]ClampBounds
}

// QualityImprovement represents the before/after quality scores of a run
type QualityImprovement struct {
	OriginalScore float64
	FinalScore    float64
	Improvement   float64
}

// CleaningReport represents the full record of one cleaning run
type CleaningReport struct {
	RunID         string
	OriginalRows  int
	OriginalCols  int
	FinalRows     int
	FinalCols     int
	Found         *QualityAssessment
	MissingValues *MissingValueFix
	Duplicates    *DuplicateFix
	Formats       *FormatFix
	Outliers      *OutlierFix
	Quality       *QualityImprovement
	StartedAt     time.Time
	CompletedAt   time.Time
}

// Complete reports whether every pipeline stage has recorded its results
func (r *CleaningReport) Complete() bool {
	return r != nil &&
		r.Found != nil &&
		r.MissingValues != nil &&
		r.Duplicates != nil &&
		r.Formats != nil &&
		r.Outliers != nil &&
		r.Quality != nil
}

// VerificationResult represents the result of post-clean verification
type VerificationResult struct {
	Success          bool
	DuplicateRows    int
	NullCells        map[string]int
	OutOfRangeValues map[string]int
	InvalidEmails    int
}
