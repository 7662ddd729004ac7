package cleaner

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vitebski/customer-data-cleaner/internal/assessor"
	"github.com/vitebski/customer-data-cleaner/internal/table"
	"github.com/vitebski/customer-data-cleaner/pkg/models"
)

// Columns with more nulls than this fraction are dropped outright
const dropColumnThreshold = 0.5

// Numeric columns clamped during outlier handling
var clampColumns = []string{"Age", "Income"}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Layouts accepted when coercing Registration_Date strings
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"January 02, 2006",
	"January 2, 2006",
}

// Options control optional cleaning behaviors
type Options struct {
	// ReformatPhones renders 10-digit phone numbers as (nnn) nnn-nnnn after
	// stripping. Off by default; the default output is digits only.
	ReformatPhones bool
}

// CustomerDataCleaner runs the cleaning pipeline over a customer table:
// missing values, duplicates, format standardization, outlier clamping,
// in that order.
type CustomerDataCleaner struct {
	Assessor *assessor.QualityAssessor
	Options  Options
	Logger   *logrus.Logger
	titler   cases.Caser
}

// NewCustomerDataCleaner creates a new cleaner
func NewCustomerDataCleaner(qa *assessor.QualityAssessor, opts Options, logger *logrus.Logger) *CustomerDataCleaner {
	return &CustomerDataCleaner{
		Assessor: qa,
		Options:  opts,
		Logger:   logger,
		titler:   cases.Title(language.English),
	}
}

// Clean runs the full pipeline and returns the cleaned table together with
// the report for this run. The input table is not modified.
func (cc *CustomerDataCleaner) Clean(t *table.Table) (*table.Table, *models.CleaningReport, error) {
	if t.IsEmpty() {
		return nil, nil, fmt.Errorf("cannot clean an empty table")
	}

	report := &models.CleaningReport{
		RunID:        uuid.NewString(),
		OriginalRows: t.NumRows(),
		OriginalCols: t.NumCols(),
		StartedAt:    time.Now(),
	}
	cc.Logger.Infof("Starting cleaning run %s (%d rows, %d columns)",
		report.RunID, report.OriginalRows, report.OriginalCols)

	originalScore := cc.Assessor.QualityScore(t)
	report.Found = cc.Assessor.Assess(t)

	cleaned := cc.CleanMissingValues(t, report)
	cleaned = cc.RemoveDuplicates(cleaned, report)
	cleaned, err := cc.StandardizeFormats(cleaned, report)
	if err != nil {
		return nil, nil, fmt.Errorf("standardizing formats: %w", err)
	}
	cleaned = cc.HandleOutliers(cleaned, report)

	finalScore := cc.Assessor.QualityScore(cleaned)
	report.FinalRows = cleaned.NumRows()
	report.FinalCols = cleaned.NumCols()
	report.Quality = &models.QualityImprovement{
		OriginalScore: originalScore,
		FinalScore:    finalScore,
		Improvement:   finalScore - originalScore,
	}
	report.CompletedAt = time.Now()

	cc.Logger.Infof("Quality score: %.2f%% -> %.2f%% (%+.2f%%)",
		originalScore, finalScore, finalScore-originalScore)
	return cleaned, report, nil
}

// CleanMissingValues drops columns that are mostly null, then imputes the
// remaining nulls: mode for string columns, median for numeric ones.
// Columns whose values are all null are left untouched.
func (cc *CustomerDataCleaner) CleanMissingValues(t *table.Table, report *models.CleaningReport) *table.Table {
	cc.Logger.Info("Cleaning missing values...")

	cleaned := t.Clone()
	beforeNulls := cleaned.TotalNulls()
	rows := float64(cleaned.NumRows())

	var dropped []string
	for _, col := range t.Columns {
		if rows > 0 && float64(cleaned.NullCount(col))/rows > dropColumnThreshold {
			cleaned.DropColumn(col)
			dropped = append(dropped, col)
			cc.Logger.Warningf("Dropped column %s: more than half the values are missing", col)
		}
	}

	for _, col := range cleaned.Columns {
		if cleaned.NullCount(col) == 0 {
			continue
		}
		var fill interface{}
		if cleaned.IsNumericColumn(col) {
			fill = numericFill(cleaned, col)
		} else if mode, ok := cleaned.Mode(col); ok {
			fill = mode
		} else {
			continue
		}
		for _, row := range cleaned.Rows {
			if row[col] == nil {
				row[col] = fill
			}
		}
	}

	report.MissingValues = &models.MissingValueFix{
		DroppedColumns: dropped,
		ImputedCells:   beforeNulls - cleaned.TotalNulls(),
	}
	cc.Logger.Infof("Imputed %d missing cells, dropped %d columns",
		report.MissingValues.ImputedCells, len(dropped))
	return cleaned
}

// numericFill returns the column median as a cell matching the column's
// numeric kind: integer columns stay integral when the median lands on a
// whole number.
func numericFill(t *table.Table, col string) interface{} {
	median := table.Median(t.NumericValues(col))

	hasFloat := false
	for _, row := range t.Rows {
		if _, isFloat := row[col].(float64); isFloat {
			hasFloat = true
			break
		}
	}
	if !hasFloat && median == math.Trunc(median) {
		return int64(median)
	}
	return median
}

// RemoveDuplicates drops exact duplicate rows, keeping the first occurrence
// in row order. Null cells compare equal to each other.
func (cc *CustomerDataCleaner) RemoveDuplicates(t *table.Table, report *models.CleaningReport) *table.Table {
	cc.Logger.Info("Removing duplicate rows...")

	cleaned := table.New(t.Columns...)
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		key := t.RowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned.AppendRow(row.Copy())
	}

	removed := t.NumRows() - cleaned.NumRows()
	rate := 0.0
	if t.NumRows() > 0 {
		rate = float64(removed) / float64(t.NumRows()) * 100
	}
	report.Duplicates = &models.DuplicateFix{Removed: removed, RatePercent: rate}
	cc.Logger.Infof("Removed %d duplicate rows (%.2f%%)", removed, rate)
	return cleaned
}

// StandardizeFormats normalizes emails, phone numbers, registration dates
// and status casing. Absent columns are skipped.
func (cc *CustomerDataCleaner) StandardizeFormats(t *table.Table, report *models.CleaningReport) (*table.Table, error) {
	cc.Logger.Info("Standardizing formats...")

	cleaned := t.Clone()
	fix := &models.FormatFix{}

	if cleaned.HasColumn("Email") {
		if err := cc.standardizeEmails(cleaned, fix); err != nil {
			return nil, err
		}
	}
	if cleaned.HasColumn("Phone") {
		cc.standardizePhones(cleaned, fix)
	}
	if cleaned.HasColumn("Registration_Date") {
		cc.standardizeDates(cleaned, fix)
	}
	if cleaned.HasColumn("Status") {
		cc.standardizeStatuses(cleaned, fix)
	}

	report.Formats = fix
	cc.Logger.Infof("Standardized formats: %d invalid emails nulled, %d dates coerced to null",
		fix.InvalidEmails, fix.DatesCoerced)
	return cleaned, nil
}

// standardizeEmails validates addresses against the accepted pattern,
// nulls out the invalid ones and appends the Email_Valid column
func (cc *CustomerDataCleaner) standardizeEmails(t *table.Table, fix *models.FormatFix) error {
	valid := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		email, ok := row["Email"].(string)
		isValid := ok && emailPattern.MatchString(email)
		valid[i] = isValid
		if !isValid && row["Email"] != nil {
			row["Email"] = nil
			fix.InvalidEmails++
		}
	}
	return t.SetColumn("Email_Valid", valid)
}

// standardizePhones strips phone cells down to their digits. Only with
// ReformatPhones enabled do exactly-10-digit numbers get re-rendered.
func (cc *CustomerDataCleaner) standardizePhones(t *table.Table, fix *models.FormatFix) {
	for _, row := range t.Rows {
		v := row["Phone"]
		if v == nil {
			continue
		}
		rendered := table.Render(v)
		digits := nonDigits.ReplaceAllString(rendered, "")
		if cc.Options.ReformatPhones && len(digits) == 10 {
			row["Phone"] = fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
			fix.PhonesReformatted++
			continue
		}
		if rendered != digits {
			fix.PhonesStripped++
		}
		row["Phone"] = digits
	}
}

// standardizeDates parses the known layouts into real dates; strings that
// match none of them become null
func (cc *CustomerDataCleaner) standardizeDates(t *table.Table, fix *models.FormatFix) {
	for _, row := range t.Rows {
		switch cell := row["Registration_Date"].(type) {
		case nil, time.Time:
			continue
		case string:
			if parsed, ok := parseDate(cell); ok {
				row["Registration_Date"] = parsed
				fix.DatesParsed++
			} else {
				row["Registration_Date"] = nil
				fix.DatesCoerced++
			}
		default:
			row["Registration_Date"] = nil
			fix.DatesCoerced++
		}
	}
}

// parseDate tries each accepted layout in order
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// standardizeStatuses rewrites status values into title case
func (cc *CustomerDataCleaner) standardizeStatuses(t *table.Table, fix *models.FormatFix) {
	for _, row := range t.Rows {
		s, ok := row["Status"].(string)
		if !ok {
			continue
		}
		if normalized := cc.titler.String(s); normalized != s {
			row["Status"] = normalized
			fix.StatusesRewritten++
		}
	}
}

// HandleOutliers clamps Age and Income into their IQR fences. Rows are
// never removed; out-of-range cells are set to the nearest bound.
func (cc *CustomerDataCleaner) HandleOutliers(t *table.Table, report *models.CleaningReport) *table.Table {
	cc.Logger.Info("Handling outliers...")

	cleaned := t.Clone()
	fix := &models.OutlierFix{
		ClampedValues: make(map[string]int),
		Bounds:        make(map[string]models.ClampBounds),
	}

	for _, col := range clampColumns {
		if !cleaned.HasColumn(col) || !cleaned.IsNumericColumn(col) {
			continue
		}
		values := cleaned.NumericValues(col)
		if len(values) < 2 {
			continue
		}
		lower, upper := assessor.OutlierBounds(values)
		fix.Bounds[col] = models.ClampBounds{Lower: lower, Upper: upper}

		clamped := 0
		for _, row := range cleaned.Rows {
			f, ok := table.Float64(row[col])
			if !ok {
				continue
			}
			switch {
			case f < lower:
				row[col] = lower
				clamped++
			case f > upper:
				row[col] = upper
				clamped++
			}
		}
		fix.ClampedValues[col] = clamped
		cc.Logger.Infof("Clamped %d %s values into [%.2f, %.2f]", clamped, col, lower, upper)
	}

	report.Outliers = fix
	return cleaned
}
