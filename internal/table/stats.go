package table

import "sort"

// NullCount returns the number of null cells in the named column
func (t *Table) NullCount(col string) int {
	count := 0
	for _, row := range t.Rows {
		if row[col] == nil {
			count++
		}
	}
	return count
}

// NullCounts returns per-column null counts
func (t *Table) NullCounts() map[string]int {
	counts := make(map[string]int, len(t.Columns))
	for _, col := range t.Columns {
		counts[col] = t.NullCount(col)
	}
	return counts
}

// TotalNulls returns the number of null cells across the whole table
func (t *Table) TotalNulls() int {
	total := 0
	for _, col := range t.Columns {
		total += t.NullCount(col)
	}
	return total
}

// DistinctCount returns the number of distinct non-null values in the column
func (t *Table) DistinctCount(col string) int {
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		seen[cellKey(v)] = true
	}
	return len(seen)
}

// Mode returns the most frequent non-null value in the column. Ties are
// broken by first occurrence in row order. ok is false when the column has
// no non-null values.
func (t *Table) Mode(col string) (interface{}, bool) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	values := make(map[string]interface{})

	for i, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		key := cellKey(v)
		if _, seen := counts[key]; !seen {
			firstSeen[key] = i
			values[key] = v
		}
		counts[key]++
	}

	if len(counts) == 0 {
		return nil, false
	}

	bestKey := ""
	bestCount := -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && firstSeen[key] < firstSeen[bestKey]) {
			bestKey = key
			bestCount = count
		}
	}
	return values[bestKey], true
}

// NumericValues returns the column's non-null numeric cells as float64s,
// in row order. Non-numeric cells are skipped.
func (t *Table) NumericValues(col string) []float64 {
	var values []float64
	for _, row := range t.Rows {
		if f, ok := Float64(row[col]); ok {
			values = append(values, f)
		}
	}
	return values
}

// IsNumericColumn reports whether the column holds at least one numeric cell
// and nothing but numeric or null cells.
func (t *Table) IsNumericColumn(col string) bool {
	numeric := 0
	for _, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		if _, ok := Float64(v); !ok {
			return false
		}
		numeric++
	}
	return numeric > 0
}

// DuplicateCount returns the number of rows that are exact copies of an
// earlier row. Null cells compare equal to each other.
func (t *Table) DuplicateCount() int {
	seen := make(map[string]bool, len(t.Rows))
	dupes := 0
	for _, row := range t.Rows {
		key := t.RowKey(row)
		if seen[key] {
			dupes++
		} else {
			seen[key] = true
		}
	}
	return dupes
}

// ApproxMemoryMB estimates the in-memory footprint of the table's cells in
// megabytes. Informational only.
func (t *Table) ApproxMemoryMB() float64 {
	bytes := 0
	for _, row := range t.Rows {
		for _, col := range t.Columns {
			bytes += cellBytes(row[col])
		}
	}
	return float64(bytes) / (1024 * 1024)
}

// Quantile returns the q-th quantile (0 <= q <= 1) of the values using
// linear interpolation between closest ranks (pos = (n-1)*q). Returns 0 for
// an empty input; callers check for that case first.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := float64(len(sorted)-1) * q
	lower := int(pos)
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower]*(1-frac) + sorted[lower+1]*frac
}

// Median returns the 0.5 quantile of the values
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}
