package utils

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vitebski/customer-data-cleaner/internal/table"
	"github.com/vitebski/customer-data-cleaner/pkg/models"
)

// Columns that may legitimately hold nulls after cleaning: invalid emails
// and unparseable dates are nulled out by standardization.
var nullableAfterCleaning = map[string]bool{
	"Email":             true,
	"Registration_Date": true,
}

// SetupLogging configures the logging system
func SetupLogging(logLevel string) *logrus.Logger {
	// Create a new logger
	logger := logrus.New()

	// Get log level from environment variable or parameter
	levelStr := logLevel
	if levelStr == "" {
		levelStr = os.Getenv("CLEANER_LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
	}

	// Parse log level
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	// Configure logger
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)

	logger.Infof("Logging configured with level: %s", level)
	return logger
}

// LoadEnvironmentVariables loads environment variables from a .env file
func LoadEnvironmentVariables(envFile string, logger *logrus.Logger) {
	// Check if a sample .env file exists but not the actual .env file
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		sampleEnvFile := envFile + ".sample"
		if _, err := os.Stat(sampleEnvFile); err == nil {
			logger.Infof("No %s file found, but %s exists. Consider copying %s to %s and updating it.",
				envFile, sampleEnvFile, sampleEnvFile, envFile)
		}
	}

	// Load environment variables from .env file if it exists
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warningf("Error loading %s file: %v", envFile, err)
		} else {
			logger.Infof("Loaded environment variables from %s", envFile)
		}
	} else {
		logger.Infof("No %s file found, using existing environment variables", envFile)
	}

	// Log all available CLEANER_* environment variables (for debugging)
	if logger.Level == logrus.DebugLevel {
		for _, env := range os.Environ() {
			if strings.HasPrefix(env, "CLEANER_") {
				parts := strings.SplitN(env, "=", 2)
				if len(parts) == 2 {
					logger.Debugf("%s=%s", parts[0], parts[1])
				}
			}
		}
	}
}

// PrintAssessment prints a detailed pre-clean quality assessment
func PrintAssessment(assessment *models.QualityAssessment) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("DATA QUALITY ASSESSMENT REPORT")
	fmt.Println(strings.Repeat("=", 80))

	// Basic statistics
	fmt.Println("\n1. BASIC STATISTICS")
	fmt.Printf("   Rows: %d\n", assessment.Rows)
	fmt.Printf("   Columns: %d\n", assessment.Columns)
	fmt.Printf("   Approximate memory: %.2f MB\n", assessment.MemoryMB)
	fmt.Printf("   Duplicate rows: %d\n", assessment.DuplicateRows)

	// Missing values per column
	fmt.Println("\n2. MISSING VALUES")
	for _, col := range sortedKeys(assessment.MissingValues) {
		fmt.Printf("   %s: %d\n", col, assessment.MissingValues[col])
	}

	// Column types and cardinality
	fmt.Println("\n3. COLUMN PROFILES")
	var cols []string
	for col := range assessment.ColumnTypes {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		fmt.Printf("   %s: %s, %d unique values\n", col, assessment.ColumnTypes[col], assessment.UniqueValues[col])
	}

	// Outliers in numeric columns
	fmt.Println("\n4. OUTLIERS (IQR METHOD)")
	if len(assessment.Outliers) == 0 {
		fmt.Println("   No numeric columns found")
	} else {
		for _, col := range sortedKeys(assessment.Outliers) {
			fmt.Printf("   %s: %d\n", col, assessment.Outliers[col])
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
}

// PrintRunSummary prints a short summary of the cleaning run
func PrintRunSummary(rep *models.CleaningReport) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("CLEANING RUN SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Run ID: %s\n", rep.RunID)
	fmt.Printf("Rows: %d -> %d\n", rep.OriginalRows, rep.FinalRows)
	fmt.Printf("Columns: %d -> %d\n", rep.OriginalCols, rep.FinalCols)
	if rep.Quality != nil {
		fmt.Printf("Quality score: %.2f%% -> %.2f%% (%+.2f%%)\n",
			rep.Quality.OriginalScore, rep.Quality.FinalScore, rep.Quality.Improvement)
	}
	fmt.Printf("Elapsed: %s\n", rep.CompletedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	fmt.Println(strings.Repeat("=", 50))
}

// VerifyCleanedTable checks that a cleaned table holds what the pipeline
// promises: no duplicate rows, nulls only where cleaning legitimately
// leaves them, numeric values inside the clamp bounds recorded in the
// report, and Email_Valid flags consistent with the Email column.
func VerifyCleanedTable(t *table.Table, rep *models.CleaningReport, logger *logrus.Logger) *models.VerificationResult {
	logger.Info("Verifying cleaned table...")

	result := &models.VerificationResult{
		NullCells:        make(map[string]int),
		OutOfRangeValues: make(map[string]int),
	}

	result.DuplicateRows = t.DuplicateCount()

	for _, col := range t.Columns {
		if nulls := t.NullCount(col); nulls > 0 {
			result.NullCells[col] = nulls
		}
	}

	if rep != nil && rep.Outliers != nil {
		for col, bounds := range rep.Outliers.Bounds {
			if !t.HasColumn(col) {
				continue
			}
			count := 0
			for _, v := range t.NumericValues(col) {
				if v < bounds.Lower || v > bounds.Upper {
					count++
				}
			}
			if count > 0 {
				result.OutOfRangeValues[col] = count
			}
		}
	}

	if t.HasColumn("Email") && t.HasColumn("Email_Valid") {
		for _, row := range t.Rows {
			valid, _ := row["Email_Valid"].(bool)
			hasEmail := row["Email"] != nil
			if valid != hasEmail {
				result.InvalidEmails++
			}
		}
	}

	unexpectedNulls := 0
	for col, n := range result.NullCells {
		if !nullableAfterCleaning[col] {
			unexpectedNulls += n
		}
	}

	result.Success = result.DuplicateRows == 0 &&
		unexpectedNulls == 0 &&
		len(result.OutOfRangeValues) == 0 &&
		result.InvalidEmails == 0

	if result.Success {
		logger.Info("Verification successful: cleaned table is consistent")
	} else {
		logger.Errorf("Verification failed: %d duplicate rows, %d unexpected nulls, %d columns out of range, %d email mismatches",
			result.DuplicateRows, unexpectedNulls, len(result.OutOfRangeValues), result.InvalidEmails)
	}

	return result
}

// PrintVerificationResults prints the results of the cleaned-table verification
func PrintVerificationResults(result *models.VerificationResult) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("CLEANED TABLE VERIFICATION RESULTS")
	fmt.Println(strings.Repeat("=", 50))

	if result.Success {
		fmt.Println("✅ Cleaned table passed all consistency checks")
		fmt.Println(strings.Repeat("=", 50))
		return
	}

	if result.DuplicateRows > 0 {
		fmt.Printf("❌ %d duplicate rows remain\n", result.DuplicateRows)
	}

	if len(result.NullCells) > 0 {
		fmt.Println("⚠️  Columns with remaining nulls:")
		for _, col := range sortedKeys(result.NullCells) {
			marker := "expected"
			if !nullableAfterCleaning[col] {
				marker = "unexpected"
			}
			fmt.Printf("  - %s: %d (%s)\n", col, result.NullCells[col], marker)
		}
	}

	if len(result.OutOfRangeValues) > 0 {
		fmt.Println("❌ Columns with values outside their clamp bounds:")
		for _, col := range sortedKeys(result.OutOfRangeValues) {
			fmt.Printf("  - %s: %d\n", col, result.OutOfRangeValues[col])
		}
	}

	if result.InvalidEmails > 0 {
		fmt.Printf("❌ %d rows with inconsistent email validity\n", result.InvalidEmails)
	}

	fmt.Println(strings.Repeat("=", 50))
}

// sortedKeys returns the map's keys in sorted order
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
