package table

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/pcstats/timeutil"
)

// Transform converts the raw text of a cell into a row value. Transforms
// never fail: unusable input becomes nil or a fixed default.
type Transform func(string) any

// Text trims s and returns nil for an empty result.
func Text(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// Raw returns s unchanged.
func Raw(s string) any { return s }

// Int parses a non-negative integer, nil otherwise.
func Int(s string) any {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return n
}

// IntOr parses like Int but falls back to def.
func IntOr(def int) Transform {
	return func(s string) any {
		if v := Int(s); v != nil {
			return v
		}
		return def
	}
}

// Float parses a non-negative decimal number, nil otherwise.
func Float(s string) any {
	s = strings.TrimSpace(s)
	if !isDecimal(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

// FloatOr parses like Float but falls back to def.
func FloatOr(def float64) Transform {
	return func(s string) any {
		if v := Float(s); v != nil {
			return v
		}
		return def
	}
}

// LastToken applies next to the last whitespace-separated token of s. Cells
// holding a struck-through old value followed by the corrected one ("12 8")
// resolve to the corrected value.
func LastToken(next Transform) Transform {
	return func(s string) any {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return next("")
		}
		return next(fields[len(fields)-1])
	}
}

// Status maps a numeric rank to "DF" (did finish) and keeps other markers
// such as DNF or OTL.
func Status(s string) any {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil
	case isDigits(s):
		return "DF"
	}
	return s
}

// Regex returns the first capture group of re in s, or nil.
func Regex(re *regexp.Regexp) Transform {
	return func(s string) any {
		m := re.FindStringSubmatch(s)
		if len(m) < 2 || m[1] == "" {
			return nil
		}
		return m[1]
	}
}

// DayMonthIf returns the MM-DD date found in s when s contains marker, def
// when it does not, and nil when the marker is present without a date.
func DayMonthIf(marker, def string) Transform {
	return func(s string) any {
		if !strings.Contains(s, marker) {
			return def
		}
		dm, err := timeutil.DayMonth(s)
		if err != nil {
			return nil
		}
		return dm
	}
}

// ComposeDate turns "DD.MM" cells into YYYY-MM-DD using year. Every cell is
// nil when year is empty.
func ComposeDate(year string) Transform {
	return func(s string) any {
		if year == "" || strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := timeutil.ComposeDate(s, year)
		if err != nil {
			return nil
		}
		return d
	}
}

// Time normalises a race time cell to H:MM:SS. A bare "M.SS" is read as
// minutes and seconds.
func Time(s string) any {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" || s == "-" {
		return nil
	}
	if !strings.ContainsAny(s, ":,") {
		if m, sec, ok := strings.Cut(s, "."); ok && len(sec) >= 2 {
			s = m + ":" + sec[:2]
		}
	}
	t, err := timeutil.FormatTime(s)
	if err != nil {
		return nil
	}
	return t
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isDecimal accepts plain decimals with at least one digit: "12", "12.5",
// ".5" and "12.". Signs and exponents are rejected.
func isDecimal(s string) bool {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return isDigits(whole)
	}
	if whole == "" && frac == "" {
		return false
	}
	return (whole == "" || isDigits(whole)) && (frac == "" || isDigits(frac))
}
