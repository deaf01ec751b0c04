package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// bareHourRe matches a token that is nothing but digits, e.g. "9".
	bareHourRe = regexp.MustCompile(`^\d+$`)

	// colonPrefixHourRe matches an hour followed by a colon, e.g. "9:30" -> 9.
	colonPrefixHourRe = regexp.MustCompile(`^(\d{1,2})\s*:`)

	// koreanHourRe matches the hour-suffix glyph form, e.g. "9시" -> 9.
	koreanHourRe = regexp.MustCompile(`^(\d{1,2})\s*시`)

	// embeddedHourRe matches an H:MM anywhere in the token, e.g. "오전 9:30" -> 9.
	embeddedHourRe = regexp.MustCompile(`\b(\d{1,2}):\d{2}\b`)
)

// RawRow is one unparsed row of the readings table, keyed by concern
// rather than by the source sheet's Korean column names.
type RawRow struct {
	Date      string
	Region    string
	Hour      string
	Odor      string
	WindDir   string
	WindSpeed string
}

// Reading is the validated form of a RawRow. Field validity is tracked
// per concern: a reading with a bad hour token still contributes to the
// spatial aggregate, and one with a bad odor cell still contributes to
// the wind aggregate.
type Reading struct {
	Date   CalendarDate
	Region string // normalized join key, "" when unparseable

	Hour int // 0-23, or -1 when the hour token was unparseable

	Odor    float64
	HasOdor bool

	WindDir   float64 // degrees
	WindSpeed float64
	HasWind   bool
}

// SkipReason explains why a raw row was rejected outright.
type SkipReason string

const (
	// SkipNone means the row produced a usable Reading.
	SkipNone SkipReason = ""
	// SkipBadDate means the date cell failed strict YYYY-MM-DD parsing.
	// Every aggregate filters by date, so the row is useless.
	SkipBadDate SkipReason = "bad_date"
)

// CalendarDate is a year/month/day value. Equality and ordering are by
// calendar value, never by the original string.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCalendarDate parses a strict "YYYY-MM-DD" date. No fallback
// format is accepted; malformed input returns an error so comparisons
// against it cannot silently succeed.
func ParseCalendarDate(raw string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("parse calendar date %q: %w", raw, err)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// IsZero reports whether d is the zero date.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Time returns the date at 00:00:00 UTC.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (or earlier for negative n),
// normalized across month boundaries.
func (d CalendarDate) AddDays(n int) CalendarDate {
	t := d.Time().AddDate(0, 0, n)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of the week.
func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d is earlier than o.
func (d CalendarDate) Before(o CalendarDate) bool {
	return d.Time().Before(o.Time())
}

// After reports whether d is later than o.
func (d CalendarDate) After(o CalendarDate) bool {
	return d.Time().After(o.Time())
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as its "YYYY-MM-DD" string form.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("calendar date: %w", err)
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizeKey canonicalizes a text key: Unicode NFC, byte-order marks
// stripped, CR/LF/TAB stripped, every whitespace run removed. Region
// names, date strings, and CSV headers all pass through this so join
// keys are robust to encoding and whitespace noise.
func NormalizeKey(raw string) string {
	s := norm.NFC.String(raw)
	return strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\r' || r == '\n' || r == '\t' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseHour extracts an hour from a loosely formatted token. Patterns
// are tried in priority order (bare integer, "H:" prefix, "H시" prefix,
// embedded "H:MM") and the first match wins. The reported value is the
// literal integer from the token; callers reject values outside 0-23.
func ParseHour(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if bareHourRe.MatchString(s) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	for _, re := range []*regexp.Regexp{colonPrefixHourRe, koreanHourRe, embeddedHourRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}

	return 0, false
}

// ParseRow validates a raw row into a Reading. Only an unparseable date
// rejects the row; every other bad field just marks that concern
// invalid so sibling fields keep contributing to their aggregates.
func ParseRow(raw RawRow) (Reading, SkipReason) {
	date, err := ParseCalendarDate(NormalizeKey(raw.Date))
	if err != nil {
		return Reading{}, SkipBadDate
	}

	r := Reading{
		Date:   date,
		Region: NormalizeKey(raw.Region),
		Hour:   -1,
	}

	if h, ok := ParseHour(raw.Hour); ok && h >= 0 && h <= 23 {
		r.Hour = h
	}

	r.Odor, r.HasOdor = parseMeasurement(raw.Odor)

	dir, dirOK := parseMeasurement(raw.WindDir)
	spd, spdOK := parseMeasurement(raw.WindSpeed)
	if dirOK && spdOK {
		r.WindDir = dir
		r.WindSpeed = spd
		r.HasWind = true
	}

	return r, SkipNone
}

// parseMeasurement parses a numeric cell. Empty cells read as zero (the
// sheet leaves unmeasured cells blank); non-numeric or non-finite
// content invalidates the field.
func parseMeasurement(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
