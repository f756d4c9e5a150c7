// Package timeutil converts the date and race-time notations used on
// procyclingstats pages into canonical strings.
//
// Dates are YYYY-MM-DD, day-month pairs are MM-DD and race times are H:MM:SS
// with an optional fractional part (H:MM:SS.ff) for time trials.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrFormat is returned when input does not follow any supported notation.
var ErrFormat = errors.New("timeutil: unsupported format")

// DayMonth finds a "dd/mm" or "dd-mm" pair inside s and returns it as MM-DD.
// When several pairs occur the last one wins. Pairs that are not a day of
// the calendar, such as 31/04, are ignored; 29/02 is accepted.
func DayMonth(s string) (string, error) {
	var day, month string
	for i := 0; i+5 <= len(s); i++ {
		if !isDigits(s[i:i+2]) || !isDigits(s[i+3:i+5]) {
			continue
		}
		if s[i+2] != '/' && s[i+2] != '-' {
			continue
		}
		d, _ := strconv.Atoi(s[i : i+2])
		m, _ := strconv.Atoi(s[i+3 : i+5])
		if validDate(leapYear, m, d) {
			day, month = s[i:i+2], s[i+3:i+5]
		}
	}
	if day == "" {
		return "", fmt.Errorf("%w: no day/month in %q", ErrFormat, s)
	}
	return month + "-" + day, nil
}

// ConvertDate turns "30 July 2022" into "2022-07-30".
func ConvertDate(s string) (string, error) {
	t, err := time.Parse("2 January 2006", strings.Join(strings.Fields(s), " "))
	if err != nil {
		return "", fmt.Errorf("%w: date %q", ErrFormat, s)
	}
	return t.Format(time.DateOnly), nil
}

// ComposeDate joins a "DD.MM" cell with a season year into YYYY-MM-DD.
func ComposeDate(dayMonth, year string) (string, error) {
	parts := strings.Split(strings.TrimSpace(dayMonth), ".")
	y := strings.TrimSpace(year)
	if len(parts) < 2 || !isDigits(y) || len(y) != 4 {
		return "", fmt.Errorf("%w: date %q in %q", ErrFormat, dayMonth, year)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	yearNum, _ := strconv.Atoi(y)
	if err1 != nil || err2 != nil || !validDate(yearNum, month, day) {
		return "", fmt.Errorf("%w: date %q", ErrFormat, dayMonth)
	}
	return fmt.Sprintf("%s-%02d-%02d", y, month, day), nil
}

// leapYear stands in for an unknown year when checking day-month pairs.
const leapYear = 2000

// validDate reports whether year-month-day names a real calendar day.
// time.Date normalises overflow, so a changed field means the day does not
// exist.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(month) && t.Day() == day
}

// Birthdate builds YYYY-MM-DD from a day (with optional ordinal suffix such
// as "21st"), an English month name and a year.
func Birthdate(day, month, year string) (string, error) {
	var digits strings.Builder
	for _, r := range day {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d, err := strconv.Atoi(digits.String())
	if err != nil {
		return "", fmt.Errorf("%w: day %q", ErrFormat, day)
	}
	m, err := time.Parse("January", strings.TrimSpace(month))
	if err != nil {
		return "", fmt.Errorf("%w: month %q", ErrFormat, month)
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", fmt.Errorf("%w: year %q", ErrFormat, year)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m.Month()), d), nil
}

// FormatTime normalises "M:SS", "MM:SS", "H:MM:SS" and the European
// "MM.SS,ff" notation to H:MM:SS (or H:MM:SS.ff).
func FormatTime(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return "", fmt.Errorf("%w: empty time", ErrFormat)
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		parts := strings.Split(strings.ReplaceAll(s, ",", "."), ".")
		switch len(parts) {
		case 3:
			parts = append([]string{"0"}, parts...)
		case 4:
		default:
			return "", fmt.Errorf("%w: time %q", ErrFormat, s)
		}
		h, err := strconv.Atoi(parts[0])
		if err != nil || !isDigits(parts[1]) || !isDigits(parts[2]) || !isDigits(parts[3]) {
			return "", fmt.Errorf("%w: time %q", ErrFormat, s)
		}
		return fmt.Sprintf("%d:%s:%s.%s", h, pad2(parts[1]), pad2(parts[2]), parts[3]), nil
	}

	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s, frac = s[:i], s[i+1:]
		if !isDigits(frac) {
			return "", fmt.Errorf("%w: time %q", ErrFormat, s)
		}
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		parts = append([]string{"0"}, parts...)
	case 3:
	default:
		return "", fmt.Errorf("%w: time %q", ErrFormat, s)
	}
	for _, p := range parts {
		if !isDigits(p) {
			return "", fmt.Errorf("%w: time %q", ErrFormat, s)
		}
	}
	h, _ := strconv.Atoi(parts[0])
	out := fmt.Sprintf("%d:%s:%s", h, pad2(parts[1]), pad2(parts[2]))
	if frac != "" {
		out += "." + frac
	}
	return out, nil
}

// ParseTime converts a race time in any notation FormatTime accepts into a
// duration.
func ParseTime(s string) (time.Duration, error) {
	formatted, err := FormatTime(s)
	if err != nil {
		return 0, err
	}
	clock, frac, _ := strings.Cut(formatted, ".")
	parts := strings.Split(clock, ":")
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, _ := strconv.Atoi(parts[2])
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	if frac != "" {
		ms, _ := strconv.Atoi((frac + "000")[:3])
		d += time.Duration(ms) * time.Millisecond
	}
	return d, nil
}

// Duration renders d as H:MM:SS, adding a two-digit fraction when d has
// sub-second precision. Hours are not wrapped at 24.
func Duration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if cs := d / (10 * time.Millisecond); cs > 0 {
		out += fmt.Sprintf(".%02d", cs)
	}
	if neg {
		out = "-" + out
	}
	return out
}

// AddTimes sums two race times. An empty operand yields "0:00:00".
func AddTimes(a, b string) (string, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return "0:00:00", nil
	}
	da, err := ParseTime(a)
	if err != nil {
		return "", err
	}
	db, err := ParseTime(b)
	if err != nil {
		return "", err
	}
	return Duration(da + db), nil
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

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
