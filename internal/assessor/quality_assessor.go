package assessor

import (
	"github.com/sirupsen/logrus"
	"github.com/vitebski/customer-data-cleaner/internal/table"
	"github.com/vitebski/customer-data-cleaner/pkg/models"
)

// QualityAssessor inspects tables and reports their quality defects
type QualityAssessor struct {
	Logger *logrus.Logger
}

// NewQualityAssessor creates a new quality assessor
func NewQualityAssessor(logger *logrus.Logger) *QualityAssessor {
	return &QualityAssessor{Logger: logger}
}

// Assess examines the table without modifying it: per-column null counts,
// duplicate rows, column types, distinct value counts, approximate memory
// footprint and per-numeric-column outlier counts.
func (qa *QualityAssessor) Assess(t *table.Table) *models.QualityAssessment {
	qa.Logger.Infof("Assessing data quality of %d rows x %d columns", t.NumRows(), t.NumCols())

	assessment := &models.QualityAssessment{
		Rows:          t.NumRows(),
		Columns:       t.NumCols(),
		MissingValues: t.NullCounts(),
		DuplicateRows: t.DuplicateCount(),
		ColumnTypes:   make(map[string]string),
		UniqueValues:  make(map[string]int),
		MemoryMB:      t.ApproxMemoryMB(),
		Outliers:      make(map[string]int),
	}

	for _, col := range t.Columns {
		assessment.ColumnTypes[col] = columnType(t, col)
		assessment.UniqueValues[col] = t.DistinctCount(col)
	}

	for _, col := range t.Columns {
		if !t.IsNumericColumn(col) {
			continue
		}
		values := t.NumericValues(col)
		lower, upper := OutlierBounds(values)
		count := 0
		for _, v := range values {
			if v < lower || v > upper {
				count++
			}
		}
		assessment.Outliers[col] = count
	}

	qa.Logger.Infof("Assessment found %d missing cells, %d duplicate rows",
		assessment.TotalMissing(), assessment.DuplicateRows)
	return assessment
}

// QualityScore computes 100 minus penalties for missing cells and duplicate
// rows, floored at zero. An empty table has no defective cells and scores 100.
func (qa *QualityAssessor) QualityScore(t *table.Table) float64 {
	rows := t.NumRows()
	cells := rows * t.NumCols()
	if cells == 0 {
		return 100.0
	}

	missingPenalty := float64(t.TotalNulls()) / float64(cells) * 100
	dupePenalty := float64(t.DuplicateCount()) / float64(rows) * 100

	score := 100.0 - missingPenalty - dupePenalty
	if score < 0 {
		return 0
	}
	return score
}

// OutlierBounds returns the IQR fence [Q1-1.5*IQR, Q3+1.5*IQR] for values
func OutlierBounds(values []float64) (float64, float64) {
	q1 := table.Quantile(values, 0.25)
	q3 := table.Quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// columnType names the dominant cell kind of a column. Numeric mixes widen
// to float, any other mix reports as mixed.
func columnType(t *table.Table, col string) string {
	kinds := make(map[table.Kind]int)
	for _, row := range t.Rows {
		if v := row[col]; v != nil {
			kinds[table.KindOf(v)]++
		}
	}

	switch {
	case len(kinds) == 0:
		return table.KindNull.String()
	case len(kinds) == 1:
		for k := range kinds {
			return k.String()
		}
	case len(kinds) == 2 && kinds[table.KindInt] > 0 && kinds[table.KindFloat] > 0:
		return table.KindFloat.String()
	}
	return "mixed"
}
