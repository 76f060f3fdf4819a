package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// parseDecimal parses a numeric cell. The second return reports whether a
// non-empty cell failed to parse, so callers can count the substitution.
func parseDecimal(v string) (val float64, coerced bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true
	}
	return f, false
}

// cleanCode trims a product code and strips the trailing ".0" that
// numeric-typed code cells pick up in the source workbooks.
func cleanCode(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, ".0")
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"01-02-06",
}

// parseDate tries the date layouts the workbooks are known to produce.
func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
