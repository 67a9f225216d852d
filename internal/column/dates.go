package column

import (
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// dateLayouts are tried in order when parsing date strings. Zone-less layouts
// parse as UTC; month-first slash dates win over day-first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseTime parses a date string against the known layouts. The result is
// normalized to UTC; ok is false when no layout matches.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ToDate converts the column to Date dtype cell by cell. Strings are parsed
// against the known layouts, numbers are read as Unix milliseconds, and cells
// that cannot be converted become null.
func (c *Column) ToDate(mem memory.Allocator) *Column {
	n := c.Len()
	values := make([]Value, n)
	for i := 0; i < n; i++ {
		values[i] = toDateValue(c.Value(i))
	}
	return New(Date, values, mem)
}

func toDateValue(v Value) Value {
	kind, ok := v.Kind()
	if !ok {
		return Null()
	}
	switch kind {
	case Date:
		return v
	case String:
		s, _ := v.Str()
		if t, ok := ParseTime(s); ok {
			return DateVal(t)
		}
		return Null()
	case Integer:
		i, _ := v.Int64()
		return DateVal(time.UnixMilli(i).UTC())
	case Float:
		f, _ := v.Float64()
		return DateVal(time.UnixMilli(int64(f)).UTC())
	default:
		return Null()
	}
}
