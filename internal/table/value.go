package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical rendering of date cells.
const DateLayout = "2006-01-02"

// Kind identifies the concrete type held in a cell. Cells are one of
// nil, string, int64, float64, bool or time.Time.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
)

// String returns the human-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of a cell value
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		return KindDate
	default:
		return KindString
	}
}

// Float64 returns the cell as a float64 when it holds a numeric kind
func Float64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Render formats a cell for text output. Null renders as the empty string.
func Render(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		return c.Format(DateLayout)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// appendCellKey writes a kind-tagged canonical form of v, so values of
// different kinds never compare equal and nulls compare equal to each other.
func appendCellKey(b *strings.Builder, v interface{}) {
	switch c := v.(type) {
	case nil:
		b.WriteString("n:")
	case string:
		b.WriteString("s:")
		b.WriteString(c)
	case int64:
		b.WriteString("i:")
		b.WriteString(strconv.FormatInt(c, 10))
	case float64:
		b.WriteString("f:")
		b.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
	case bool:
		b.WriteString("b:")
		b.WriteString(strconv.FormatBool(c))
	case time.Time:
		b.WriteString("d:")
		b.WriteString(c.Format(DateLayout))
	default:
		b.WriteString("v:")
		fmt.Fprintf(b, "%v", c)
	}
	b.WriteByte(0x1f)
}

// cellKey returns the canonical key of a single cell
func cellKey(v interface{}) string {
	var b strings.Builder
	appendCellKey(&b, v)
	return b.String()
}

// cellBytes estimates the in-memory footprint of a single cell, counting
// the interface header plus the payload it points at.
func cellBytes(v interface{}) int {
	const header = 16
	switch c := v.(type) {
	case nil:
		return header
	case string:
		return header + 16 + len(c)
	case int64, float64:
		return header + 8
	case bool:
		return header + 1
	case time.Time:
		return header + 24
	default:
		return header + 8
	}
}
