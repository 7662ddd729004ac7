package cleaner

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/customer-data-cleaner/internal/assessor"
	"github.com/vitebski/customer-data-cleaner/internal/table"
	"github.com/vitebski/customer-data-cleaner/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func testCleaner(opts Options) *CustomerDataCleaner {
	logger := testLogger()
	return NewCustomerDataCleaner(assessor.NewQualityAssessor(logger), opts, logger)
}

func newReport() *models.CleaningReport {
	return &models.CleaningReport{}
}

func TestCleanMissingValuesDropsMostlyNullColumns(t *testing.T) {
	tbl := table.New("Keep", "Drop")
	tbl.AppendRow(table.Row{"Keep": "a", "Drop": nil})
	tbl.AppendRow(table.Row{"Keep": "a", "Drop": nil})
	tbl.AppendRow(table.Row{"Keep": nil, "Drop": nil})
	tbl.AppendRow(table.Row{"Keep": "b", "Drop": "x"})
	tbl.AppendRow(table.Row{"Keep": "a", "Drop": "y"})

	report := newReport()
	cleaned := testCleaner(Options{}).CleanMissingValues(tbl, report)

	if cleaned.HasColumn("Drop") {
		t.Error("Expected the 60% null column to be dropped")
	}
	if !cleaned.HasColumn("Keep") {
		t.Error("Expected the 20% null column to survive")
	}
	if len(report.MissingValues.DroppedColumns) != 1 || report.MissingValues.DroppedColumns[0] != "Drop" {
		t.Errorf("Expected DroppedColumns to be [Drop], got %v", report.MissingValues.DroppedColumns)
	}
	// The three nulls in the dropped column count as handled too
	if report.MissingValues.ImputedCells != 4 {
		t.Errorf("Expected 4 imputed cells, got %d", report.MissingValues.ImputedCells)
	}
	if cleaned.Rows[2]["Keep"] != "a" {
		t.Errorf("Expected the null to be filled with the mode, got %v", cleaned.Rows[2]["Keep"])
	}
}

func TestCleanMissingValuesKeepsExactlyHalfNullColumn(t *testing.T) {
	tbl := table.New("Half")
	tbl.AppendRow(table.Row{"Half": "x"})
	tbl.AppendRow(table.Row{"Half": nil})
	tbl.AppendRow(table.Row{"Half": "x"})
	tbl.AppendRow(table.Row{"Half": nil})

	report := newReport()
	cleaned := testCleaner(Options{}).CleanMissingValues(tbl, report)

	if !cleaned.HasColumn("Half") {
		t.Fatal("Expected a column at exactly the 50% threshold to survive")
	}
	if cleaned.NullCount("Half") != 0 {
		t.Errorf("Expected nulls to be imputed, %d remain", cleaned.NullCount("Half"))
	}
}

func TestCleanMissingValuesModeTieBreaksOnFirstSeen(t *testing.T) {
	tbl := table.New("Status")
	for _, v := range []interface{}{"b", "a", "b", "a", nil} {
		tbl.AppendRow(table.Row{"Status": v})
	}

	cleaned := testCleaner(Options{}).CleanMissingValues(tbl, newReport())

	if cleaned.Rows[4]["Status"] != "b" {
		t.Errorf("Expected the tie to resolve to the first-seen value b, got %v", cleaned.Rows[4]["Status"])
	}
}

func TestCleanMissingValuesMedianFill(t *testing.T) {
	cases := []struct {
		name   string
		values []interface{}
		want   interface{}
	}{
		{"odd integer column", []interface{}{int64(10), int64(30), int64(50), nil}, int64(30)},
		{"even integer column", []interface{}{int64(10), int64(20), int64(30), int64(50), nil}, int64(25)},
		{"float column", []interface{}{10.5, 20.5, nil}, 15.5},
	}

	for _, tc := range cases {
		tbl := table.New("Income")
		for _, v := range tc.values {
			tbl.AppendRow(table.Row{"Income": v})
		}

		cleaned := testCleaner(Options{}).CleanMissingValues(tbl, newReport())

		got := cleaned.Rows[len(tc.values)-1]["Income"]
		if got != tc.want {
			t.Errorf("%s: expected fill %v (%T), got %v (%T)", tc.name, tc.want, tc.want, got, got)
		}
	}
}

func TestRemoveDuplicatesKeepsFirstOccurrence(t *testing.T) {
	tbl := table.New("ID", "Name")
	tbl.AppendRow(table.Row{"ID": "1", "Name": "first"})
	tbl.AppendRow(table.Row{"ID": "2", "Name": "second"})
	tbl.AppendRow(table.Row{"ID": "1", "Name": "first"})
	tbl.AppendRow(table.Row{"ID": "3", "Name": "third"})

	report := newReport()
	cleaned := testCleaner(Options{}).RemoveDuplicates(tbl, report)

	if cleaned.NumRows() != 3 {
		t.Fatalf("Expected 3 rows after deduplication, got %d", cleaned.NumRows())
	}
	order := []string{"1", "2", "3"}
	for i, want := range order {
		if cleaned.Rows[i]["ID"] != want {
			t.Errorf("Expected row %d to have ID %s, got %v", i, want, cleaned.Rows[i]["ID"])
		}
	}
	if report.Duplicates.Removed != 1 {
		t.Errorf("Expected 1 removed duplicate, got %d", report.Duplicates.Removed)
	}
	if report.Duplicates.RatePercent != 25 {
		t.Errorf("Expected a 25%% duplicate rate, got %f", report.Duplicates.RatePercent)
	}
}

func TestRemoveDuplicatesTreatsNullsAsEqual(t *testing.T) {
	tbl := table.New("A", "B")
	tbl.AppendRow(table.Row{"A": nil, "B": "x"})
	tbl.AppendRow(table.Row{"A": nil, "B": "x"})

	cleaned := testCleaner(Options{}).RemoveDuplicates(tbl, newReport())

	if cleaned.NumRows() != 1 {
		t.Errorf("Expected rows with matching nulls to deduplicate, got %d rows", cleaned.NumRows())
	}
}

func TestRemoveDuplicatesIsIdempotent(t *testing.T) {
	tbl := table.New("A")
	tbl.AppendRow(table.Row{"A": "x"})
	tbl.AppendRow(table.Row{"A": "x"})
	tbl.AppendRow(table.Row{"A": "y"})

	cc := testCleaner(Options{})
	once := cc.RemoveDuplicates(tbl, newReport())
	twice := cc.RemoveDuplicates(once, newReport())

	if twice.NumRows() != once.NumRows() {
		t.Errorf("Expected a second pass to remove nothing, got %d rows from %d", twice.NumRows(), once.NumRows())
	}
}

func TestStandardizeEmails(t *testing.T) {
	tbl := table.New("Email")
	tbl.AppendRow(table.Row{"Email": "user1@example.com"})
	tbl.AppendRow(table.Row{"Email": "invalid_email_7"})
	tbl.AppendRow(table.Row{"Email": nil})

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	if got := cleaned.Columns[len(cleaned.Columns)-1]; got != "Email_Valid" {
		t.Errorf("Expected Email_Valid to be appended as the last column, got %s", got)
	}
	if cleaned.Rows[0]["Email"] != "user1@example.com" || cleaned.Rows[0]["Email_Valid"] != true {
		t.Errorf("Expected the valid address to be kept and flagged true, got %v / %v",
			cleaned.Rows[0]["Email"], cleaned.Rows[0]["Email_Valid"])
	}
	if cleaned.Rows[1]["Email"] != nil || cleaned.Rows[1]["Email_Valid"] != false {
		t.Errorf("Expected the invalid address to be nulled and flagged false, got %v / %v",
			cleaned.Rows[1]["Email"], cleaned.Rows[1]["Email_Valid"])
	}
	if cleaned.Rows[2]["Email"] != nil || cleaned.Rows[2]["Email_Valid"] != false {
		t.Errorf("Expected the missing address to stay null and flag false, got %v / %v",
			cleaned.Rows[2]["Email"], cleaned.Rows[2]["Email_Valid"])
	}
	// The already-null address is not an invalid one
	if report.Formats.InvalidEmails != 1 {
		t.Errorf("Expected 1 invalid email, got %d", report.Formats.InvalidEmails)
	}
}

func TestStandardizePhonesStripsToDigits(t *testing.T) {
	tbl := table.New("Phone")
	tbl.AppendRow(table.Row{"Phone": "(555) 123-4567"})
	tbl.AppendRow(table.Row{"Phone": "555-123-4567"})
	tbl.AppendRow(table.Row{"Phone": "5551234567"})
	tbl.AppendRow(table.Row{"Phone": "+15551234567"})
	tbl.AppendRow(table.Row{"Phone": nil})

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	want := []interface{}{"5551234567", "5551234567", "5551234567", "15551234567", nil}
	for i, w := range want {
		if cleaned.Rows[i]["Phone"] != w {
			t.Errorf("Expected row %d phone %v, got %v", i, w, cleaned.Rows[i]["Phone"])
		}
	}
	// The bare 10-digit number and the null were already in shape
	if report.Formats.PhonesStripped != 3 {
		t.Errorf("Expected 3 stripped phones, got %d", report.Formats.PhonesStripped)
	}
	if report.Formats.PhonesReformatted != 0 {
		t.Errorf("Expected no reformatted phones by default, got %d", report.Formats.PhonesReformatted)
	}
}

func TestStandardizePhonesReformatOption(t *testing.T) {
	tbl := table.New("Phone")
	tbl.AppendRow(table.Row{"Phone": "555-123-4567"})
	tbl.AppendRow(table.Row{"Phone": "+15551234567"})

	report := newReport()
	cleaned, err := testCleaner(Options{ReformatPhones: true}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	if cleaned.Rows[0]["Phone"] != "(555) 123-4567" {
		t.Errorf("Expected a 10-digit number to be re-rendered, got %v", cleaned.Rows[0]["Phone"])
	}
	// Leading country codes leave 11 digits, which only get stripped
	if cleaned.Rows[1]["Phone"] != "15551234567" {
		t.Errorf("Expected an 11-digit number to stay digits, got %v", cleaned.Rows[1]["Phone"])
	}
	if report.Formats.PhonesReformatted != 1 {
		t.Errorf("Expected 1 reformatted phone, got %d", report.Formats.PhonesReformatted)
	}
	if report.Formats.PhonesStripped != 1 {
		t.Errorf("Expected 1 stripped phone, got %d", report.Formats.PhonesStripped)
	}
}

func TestStandardizeDatesParsesEveryLayout(t *testing.T) {
	want := time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC)
	tbl := table.New("Registration_Date")
	for _, raw := range []string{"2021-03-05", "03/05/2021", "05-03-2021", "March 05, 2021", "March 5, 2021"} {
		tbl.AppendRow(table.Row{"Registration_Date": raw})
	}

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	for i, row := range cleaned.Rows {
		parsed, ok := row["Registration_Date"].(time.Time)
		if !ok {
			t.Fatalf("Expected row %d to hold a date, got %T", i, row["Registration_Date"])
		}
		if !parsed.Equal(want) {
			t.Errorf("Expected row %d to parse to %v, got %v", i, want, parsed)
		}
	}
	if report.Formats.DatesParsed != 5 {
		t.Errorf("Expected 5 parsed dates, got %d", report.Formats.DatesParsed)
	}
	if report.Formats.DatesCoerced != 0 {
		t.Errorf("Expected no coerced dates, got %d", report.Formats.DatesCoerced)
	}
}

func TestStandardizeDatesCoercesGarbageToNull(t *testing.T) {
	already := time.Date(2022, time.July, 9, 0, 0, 0, 0, time.UTC)
	tbl := table.New("Registration_Date")
	tbl.AppendRow(table.Row{"Registration_Date": "not-a-date"})
	tbl.AppendRow(table.Row{"Registration_Date": int64(20210305)})
	tbl.AppendRow(table.Row{"Registration_Date": already})
	tbl.AppendRow(table.Row{"Registration_Date": nil})

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	if cleaned.Rows[0]["Registration_Date"] != nil {
		t.Errorf("Expected garbage to coerce to null, got %v", cleaned.Rows[0]["Registration_Date"])
	}
	if cleaned.Rows[1]["Registration_Date"] != nil {
		t.Errorf("Expected a non-string cell to coerce to null, got %v", cleaned.Rows[1]["Registration_Date"])
	}
	got, ok := cleaned.Rows[2]["Registration_Date"].(time.Time)
	if !ok || !got.Equal(already) {
		t.Errorf("Expected an existing date to pass through, got %v", cleaned.Rows[2]["Registration_Date"])
	}
	if cleaned.Rows[3]["Registration_Date"] != nil {
		t.Errorf("Expected null to pass through, got %v", cleaned.Rows[3]["Registration_Date"])
	}
	if report.Formats.DatesCoerced != 2 {
		t.Errorf("Expected 2 coerced dates, got %d", report.Formats.DatesCoerced)
	}
}

func TestStandardizeStatuses(t *testing.T) {
	tbl := table.New("Status")
	for _, s := range []string{"active", "INACTIVE", "Pending", "suspended"} {
		tbl.AppendRow(table.Row{"Status": s})
	}

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}

	want := []string{"Active", "Inactive", "Pending", "Suspended"}
	for i, w := range want {
		if cleaned.Rows[i]["Status"] != w {
			t.Errorf("Expected row %d status %s, got %v", i, w, cleaned.Rows[i]["Status"])
		}
	}
	// Pending was already title case
	if report.Formats.StatusesRewritten != 3 {
		t.Errorf("Expected 3 rewritten statuses, got %d", report.Formats.StatusesRewritten)
	}
}

func TestStandardizeFormatsSkipsAbsentColumns(t *testing.T) {
	tbl := table.New("Other")
	tbl.AppendRow(table.Row{"Other": "value"})

	report := newReport()
	cleaned, err := testCleaner(Options{}).StandardizeFormats(tbl, report)
	if err != nil {
		t.Fatalf("Expected standardization to succeed, got %v", err)
	}
	if cleaned.NumCols() != 1 {
		t.Errorf("Expected no columns to be added, got %d", cleaned.NumCols())
	}
	if report.Formats.InvalidEmails != 0 || report.Formats.DatesParsed != 0 {
		t.Error("Expected an all-zero format fix for a table without the known columns")
	}
}

func TestHandleOutliersClampsToFence(t *testing.T) {
	tbl := table.New("Age")
	for _, age := range []int64{30, 31, 32, 33, 200} {
		tbl.AppendRow(table.Row{"Age": age})
	}

	report := newReport()
	cleaned := testCleaner(Options{}).HandleOutliers(tbl, report)

	if cleaned.NumRows() != 5 {
		t.Fatalf("Expected clamping to keep all rows, got %d", cleaned.NumRows())
	}
	if cleaned.Rows[4]["Age"] != 36.0 {
		t.Errorf("Expected the outlier to clamp to the upper fence 36, got %v", cleaned.Rows[4]["Age"])
	}
	// In-range cells keep their original kind
	if _, ok := cleaned.Rows[0]["Age"].(int64); !ok {
		t.Errorf("Expected in-range ages to stay integers, got %T", cleaned.Rows[0]["Age"])
	}
	if report.Outliers.ClampedValues["Age"] != 1 {
		t.Errorf("Expected 1 clamped age, got %d", report.Outliers.ClampedValues["Age"])
	}
	bounds, ok := report.Outliers.Bounds["Age"]
	if !ok {
		t.Fatal("Expected clamp bounds to be recorded for Age")
	}
	if bounds.Lower != 28 || bounds.Upper != 36 {
		t.Errorf("Expected bounds [28, 36], got [%f, %f]", bounds.Lower, bounds.Upper)
	}
}

func TestHandleOutliersClampsBelowLowerFence(t *testing.T) {
	tbl := table.New("Income")
	for _, v := range []float64{50000, 51000, 52000, 53000, 1000} {
		tbl.AppendRow(table.Row{"Income": v})
	}

	report := newReport()
	cleaned := testCleaner(Options{}).HandleOutliers(tbl, report)

	bounds := report.Outliers.Bounds["Income"]
	got, ok := cleaned.Rows[4]["Income"].(float64)
	if !ok || got != bounds.Lower {
		t.Errorf("Expected the low outlier to clamp to %f, got %v", bounds.Lower, cleaned.Rows[4]["Income"])
	}
}

func TestHandleOutliersSkipsThinColumns(t *testing.T) {
	tbl := table.New("Age")
	tbl.AppendRow(table.Row{"Age": int64(42)})

	report := newReport()
	testCleaner(Options{}).HandleOutliers(tbl, report)

	if _, ok := report.Outliers.Bounds["Age"]; ok {
		t.Error("Expected a single-value column to be skipped")
	}
}

func TestHandleOutliersIgnoresOtherColumns(t *testing.T) {
	tbl := table.New("Score")
	for _, v := range []int64{1, 2, 3, 4, 1000} {
		tbl.AppendRow(table.Row{"Score": v})
	}

	report := newReport()
	cleaned := testCleaner(Options{}).HandleOutliers(tbl, report)

	if cleaned.Rows[4]["Score"] != int64(1000) {
		t.Errorf("Expected non-customer columns to be left alone, got %v", cleaned.Rows[4]["Score"])
	}
	if len(report.Outliers.Bounds) != 0 {
		t.Errorf("Expected no bounds to be recorded, got %v", report.Outliers.Bounds)
	}
}

func TestCleanRejectsEmptyTable(t *testing.T) {
	cc := testCleaner(Options{})
	if _, _, err := cc.Clean(table.New("A")); err == nil {
		t.Error("Expected an error when cleaning an empty table")
	}
}

func dirtyFixture() *table.Table {
	tbl := table.New("CustomerID", "Name", "Email", "Phone", "Age", "Income", "Registration_Date", "Status")
	rows := []table.Row{
		{"CustomerID": "CUST_000001", "Name": "John Smith", "Email": "user0@example.com", "Phone": "(555) 123-4567",
			"Age": int64(34), "Income": 52000.0, "Registration_Date": "2021-03-05", "Status": "active"},
		{"CustomerID": "CUST_000002", "Name": nil, "Email": "invalid_email_1", "Phone": "555-987-6543",
			"Age": int64(41), "Income": 61000.0, "Registration_Date": "03/05/2021", "Status": "INACTIVE"},
		{"CustomerID": "CUST_000003", "Name": "Jane Brown", "Email": nil, "Phone": nil,
			"Age": int64(200), "Income": 1000000.0, "Registration_Date": "junk", "Status": "Pending"},
		{"CustomerID": "CUST_000004", "Name": "Mike Jones", "Email": "user3@example.com", "Phone": "+15551234567",
			"Age": int64(29), "Income": 48000.0, "Registration_Date": "March 5, 2021", "Status": "suspended"},
		{"CustomerID": "CUST_000005", "Name": "Lisa Garcia", "Email": "user4@example.com", "Phone": "5559871234",
			"Age": int64(38), "Income": 57000.0, "Registration_Date": "05-03-2021", "Status": "Active"},
	}
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	// Exact duplicate of the first row
	tbl.AppendRow(rows[0].Copy())
	return tbl
}

func TestCleanFullPipeline(t *testing.T) {
	tbl := dirtyFixture()
	before := make([]string, tbl.NumRows())
	for i, row := range tbl.Rows {
		before[i] = tbl.RowKey(row)
	}

	cc := testCleaner(Options{})
	cleaned, report, err := cc.Clean(tbl)
	if err != nil {
		t.Fatalf("Expected cleaning to succeed, got %v", err)
	}

	if !report.Complete() {
		t.Error("Expected a complete report from a full run")
	}
	if report.RunID == "" {
		t.Error("Expected a run ID to be assigned")
	}
	if report.OriginalRows != 6 || report.OriginalCols != 8 {
		t.Errorf("Expected a 6x8 original shape, got %dx%d", report.OriginalRows, report.OriginalCols)
	}
	if cleaned.NumRows() != 5 {
		t.Errorf("Expected the duplicate row to be removed, got %d rows", cleaned.NumRows())
	}
	if cleaned.NumRows() > report.OriginalRows {
		t.Error("Expected cleaning to never add rows")
	}
	if cleaned.NumCols() > report.OriginalCols+1 {
		t.Errorf("Expected at most one added column, got %d of %d", cleaned.NumCols(), report.OriginalCols)
	}
	if report.FinalRows != cleaned.NumRows() || report.FinalCols != cleaned.NumCols() {
		t.Errorf("Expected the report shape to match the cleaned table, got %dx%d vs %dx%d",
			report.FinalRows, report.FinalCols, cleaned.NumRows(), cleaned.NumCols())
	}
	if !cleaned.HasColumn("Email_Valid") {
		t.Error("Expected the Email_Valid column to be added")
	}
	if cleaned.NullCount("Name") != 0 {
		t.Error("Expected missing names to be imputed")
	}
	if report.Quality == nil || report.Quality.Improvement != report.Quality.FinalScore-report.Quality.OriginalScore {
		t.Error("Expected the quality improvement to be the score delta")
	}
	if report.CompletedAt.Before(report.StartedAt) {
		t.Error("Expected the run to complete after it started")
	}

	// The input table is left untouched
	if tbl.NumRows() != len(before) {
		t.Fatalf("Expected the input table to keep %d rows, got %d", len(before), tbl.NumRows())
	}
	for i, row := range tbl.Rows {
		if tbl.RowKey(row) != before[i] {
			t.Errorf("Expected input row %d to be unchanged", i)
		}
	}
	if tbl.NumCols() != 8 {
		t.Errorf("Expected the input table to keep 8 columns, got %d", tbl.NumCols())
	}
}

func TestCleanAssignsDistinctRunIDs(t *testing.T) {
	cc := testCleaner(Options{})

	_, first, err := cc.Clean(dirtyFixture())
	if err != nil {
		t.Fatalf("Expected cleaning to succeed, got %v", err)
	}
	_, second, err := cc.Clean(dirtyFixture())
	if err != nil {
		t.Fatalf("Expected cleaning to succeed, got %v", err)
	}

	if first.RunID == second.RunID {
		t.Errorf("Expected distinct run IDs, both were %s", first.RunID)
	}
}
