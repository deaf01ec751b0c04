package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain", "보개면", "보개면"},
		{"leading BOM", "\uFEFF보개면", "보개면"},
		{"interior whitespace", "보개면 남풍리", "보개면남풍리"},
		{"tabs and newlines", "보개면\t남풍리\r\n", "보개면남풍리"},
		{"surrounding spaces", "  2025-10-01  ", "2025-10-01"},
		{"decomposed hangul composes", "\u1112\u1161\u11ab", "\ud55c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.raw))
		})
	}
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
		ok       bool
	}{
		{"bare integer", "9", 9, true},
		{"zero padded", "09", 9, true},
		{"padded spaces", " 7 ", 7, true},
		{"colon prefix wins over embedded", "12:30", 12, true},
		{"hour glyph suffix", "12시", 12, true},
		{"glyph with minutes", "9시 30분", 9, true},
		{"seconds form", "14:00:00", 14, true},
		{"embedded pattern", "오전 9:30쯤", 9, true},
		{"out of range is the caller's problem", "25", 25, true},
		{"huge integer overflows", "99999999999999999999", 0, false},
		{"garbage", "noon", 0, false},
		{"glyph alone", "시", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := ParseHour(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, h)
			}
		})
	}
}

func TestParseCalendarDate(t *testing.T) {
	t.Run("strict format", func(t *testing.T) {
		d, err := ParseCalendarDate("2025-10-01")
		require.NoError(t, err)
		assert.Equal(t, CalendarDate{Year: 2025, Month: time.October, Day: 1}, d)
	})

	t.Run("no fallback formats", func(t *testing.T) {
		for _, raw := range []string{"2025/10/01", "10-01-2025", "2025-10-1", "2025-13-01", "20251001", ""} {
			_, err := ParseCalendarDate(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})

	t.Run("ordering is by calendar value", func(t *testing.T) {
		a := CalendarDate{Year: 2025, Month: time.September, Day: 30}
		b := CalendarDate{Year: 2025, Month: time.October, Day: 1}
		assert.True(t, a.Before(b))
		assert.True(t, b.After(a))
	})
}

func TestCalendarDateJSON(t *testing.T) {
	d := CalendarDate{Year: 2025, Month: time.October, Day: 7}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-07"`, string(data))

	var back CalendarDate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
}

func TestParseRow(t *testing.T) {
	t.Run("fully valid row", func(t *testing.T) {
		r, skip := ParseRow(RawRow{
			Date:      "2025-10-01",
			Region:    " 보개면 남풍리 ",
			Hour:      "9시",
			Odor:      "12.5",
			WindDir:   "270",
			WindSpeed: "3.2",
		})
		require.Equal(t, SkipNone, skip)
		assert.Equal(t, CalendarDate{Year: 2025, Month: time.October, Day: 1}, r.Date)
		assert.Equal(t, "보개면남풍리", r.Region)
		assert.Equal(t, 9, r.Hour)
		assert.True(t, r.HasOdor)
		assert.Equal(t, 12.5, r.Odor)
		assert.True(t, r.HasWind)
		assert.Equal(t, 270.0, r.WindDir)
		assert.Equal(t, 3.2, r.WindSpeed)
	})

	t.Run("bad date rejects the row", func(t *testing.T) {
		_, skip := ParseRow(RawRow{Date: "10/01/2025", Region: "A", Odor: "1"})
		assert.Equal(t, SkipBadDate, skip)
	})

	t.Run("date cell is normalized before parsing", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "\uFEFF 2025-10-03 ", Region: "A"})
		require.Equal(t, SkipNone, skip)
		assert.Equal(t, 3, r.Date.Day)
	})

	t.Run("bad odor keeps the wind fields", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "2025-10-01", Region: "A", Odor: "n/a", WindDir: "90", WindSpeed: "1"})
		require.Equal(t, SkipNone, skip)
		assert.False(t, r.HasOdor)
		assert.True(t, r.HasWind)
	})

	t.Run("empty numeric cells read as zero", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "2025-10-01", Region: "A"})
		require.Equal(t, SkipNone, skip)
		assert.True(t, r.HasOdor)
		assert.Zero(t, r.Odor)
		assert.True(t, r.HasWind)
		assert.Zero(t, r.WindSpeed)
	})

	t.Run("wind needs both components", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "2025-10-01", Region: "A", Odor: "1", WindDir: "90", WindSpeed: "calm"})
		require.Equal(t, SkipNone, skip)
		assert.False(t, r.HasWind)
	})

	t.Run("unusable hour token", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "2025-10-01", Region: "A", Hour: "noon", Odor: "1"})
		require.Equal(t, SkipNone, skip)
		assert.Equal(t, -1, r.Hour)
	})

	t.Run("out of range hour is dropped", func(t *testing.T) {
		r, skip := ParseRow(RawRow{Date: "2025-10-01", Region: "A", Hour: "25", Odor: "1"})
		require.Equal(t, SkipNone, skip)
		assert.Equal(t, -1, r.Hour)
	})
}
