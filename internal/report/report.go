package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vitebski/customer-data-cleaner/pkg/models"
)

// Renderer produces the human-readable cleaning report
type Renderer struct {
	printer *message.Printer
}

// NewRenderer creates a renderer that formats counts with thousands grouping
func NewRenderer() *Renderer {
	return &Renderer{printer: message.NewPrinter(language.English)}
}

// Render returns the report as a fixed-template text block. It fails when
// the report is incomplete, i.e. the pipeline has not run to completion.
func (r *Renderer) Render(rep *models.CleaningReport) (string, error) {
	if !rep.Complete() {
		return "", fmt.Errorf("cleaning report is incomplete, run the pipeline first")
	}

	var b strings.Builder
	p := r.printer

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("DATA CLEANING REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Run ID: %s\n", rep.RunID)

	b.WriteString("\nDataset Overview:\n")
	fmt.Fprintf(&b, "- Original Shape: (%d, %d)\n", rep.OriginalRows, rep.OriginalCols)
	fmt.Fprintf(&b, "- Final Shape: (%d, %d)\n", rep.FinalRows, rep.FinalCols)
	p.Fprintf(&b, "- Rows Processed: %d\n", rep.OriginalRows)
	fmt.Fprintf(&b, "- Columns Processed: %d\n", rep.OriginalCols)

	b.WriteString("\nIssues Identified:\n")
	p.Fprintf(&b, "- Missing Values: %d\n", rep.Found.TotalMissing())
	p.Fprintf(&b, "- Duplicate Rows: %d\n", rep.Found.DuplicateRows)
	if len(rep.Found.Outliers) > 0 {
		fmt.Fprintf(&b, "- Outliers: %s\n", joinCounts(p, rep.Found.Outliers))
	}
	b.WriteString("- Data Quality Issues: Multiple format inconsistencies\n")

	b.WriteString("\nCleaning Actions:\n")
	p.Fprintf(&b, "- Missing Values: %d imputed\n", rep.MissingValues.ImputedCells)
	fmt.Fprintf(&b, "- Columns Dropped: %s\n", joinColumns(rep.MissingValues.DroppedColumns))
	p.Fprintf(&b, "- Duplicates: %d removed (%.2f%%)\n", rep.Duplicates.Removed, rep.Duplicates.RatePercent)
	p.Fprintf(&b, "- Formats: %d invalid emails nulled, %d phones stripped, %d dates parsed, %d dates coerced to null, %d statuses rewritten\n",
		rep.Formats.InvalidEmails, rep.Formats.PhonesStripped+rep.Formats.PhonesReformatted,
		rep.Formats.DatesParsed, rep.Formats.DatesCoerced, rep.Formats.StatusesRewritten)
	if len(rep.Outliers.ClampedValues) > 0 {
		fmt.Fprintf(&b, "- Outliers: clamped using the IQR method (%s)\n", joinCounts(p, rep.Outliers.ClampedValues))
	} else {
		b.WriteString("- Outliers: clamped using the IQR method\n")
	}

	b.WriteString("\nQuality Improvement:\n")
	fmt.Fprintf(&b, "- Original Quality Score: %.2f%%\n", rep.Quality.OriginalScore)
	fmt.Fprintf(&b, "- Final Quality Score: %.2f%%\n", rep.Quality.FinalScore)
	fmt.Fprintf(&b, "- Improvement: %+.2f%%\n", rep.Quality.Improvement)

	b.WriteString("\nData is now ready for analysis and modeling!\n")
	return b.String(), nil
}

// Print writes the rendered report to stdout
func (r *Renderer) Print(rep *models.CleaningReport) error {
	text, err := r.Render(rep)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

// joinCounts renders a column->count map in stable column order
func joinCounts(p *message.Printer, counts map[string]int) string {
	cols := make([]string, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = p.Sprintf("%s: %d", col, counts[col])
	}
	return strings.Join(parts, ", ")
}

// joinColumns renders a column list, or "none" when empty
func joinColumns(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return strings.Join(cols, ", ")
}
