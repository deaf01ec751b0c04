package loader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odorlab/odormap/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadReadings(t *testing.T) {
	csv := "\uFEFF날짜,행정구역,시간,냄새지수,풍향,풍속\n" +
		"2025-10-01,보개면 남풍리,9시,12.5,270,3.2\n" +
		"2025-10-01,보개면 남풍리,10:00,7,,\n" +
		"2025-10-01,금광면,noon,3,90,bad\n" +
		"bad-date,보개면,1,5,0,0\n" +
		"2025-10-02, 양성면 ,14:30,,180,1.0\n"
	path := writeFixture(t, "odor.csv", csv)

	readings, stats, err := ReadReadings(path, discardLogger())
	require.NoError(t, err)

	require.Len(t, readings, 4)
	assert.Equal(t, 1, stats.RejectedDate)
	assert.Equal(t, 0, stats.MissingRegion)
	assert.Equal(t, 0, stats.BadOdor)
	assert.Equal(t, 1, stats.BadHour)
	assert.Equal(t, 1, stats.BadWind)

	first := readings[0]
	assert.Equal(t, domain.CalendarDate{Year: 2025, Month: time.October, Day: 1}, first.Date)
	assert.Equal(t, "보개면남풍리", first.Region)
	assert.Equal(t, 9, first.Hour)
	assert.Equal(t, 12.5, first.Odor)
	assert.True(t, first.HasWind)
	assert.Equal(t, 270.0, first.WindDir)

	// Empty wind cells read as a zero vector, not missing wind.
	second := readings[1]
	assert.Equal(t, 10, second.Hour)
	assert.True(t, second.HasWind)
	assert.Zero(t, second.WindSpeed)

	// An unusable hour token keeps the reading out of hourly views only.
	third := readings[2]
	assert.Equal(t, -1, third.Hour)
	assert.True(t, third.HasOdor)

	// An empty odor cell reads as zero, the way the sensor export
	// encodes "no smell".
	fourth := readings[3]
	assert.Equal(t, "양성면", fourth.Region)
	assert.Equal(t, 14, fourth.Hour)
	assert.True(t, fourth.HasOdor)
	assert.Zero(t, fourth.Odor)
}

func TestReadReadings_OptionalColumnsAbsent(t *testing.T) {
	csv := "날짜,행정구역,냄새지수\n" +
		"2025-10-01,보개면,4\n"
	path := writeFixture(t, "odor.csv", csv)

	readings, stats, err := ReadReadings(path, discardLogger())
	require.NoError(t, err)

	require.Len(t, readings, 1)
	assert.Equal(t, -1, readings[0].Hour)
	assert.True(t, readings[0].HasWind, "absent wind columns read as a zero vector")
	assert.Zero(t, stats.BadHour)
	assert.Zero(t, stats.BadWind)
}

func TestReadReadings_MissingRequiredColumn(t *testing.T) {
	csv := "날짜,시간,냄새지수\n2025-10-01,9,4\n"
	path := writeFixture(t, "odor.csv", csv)

	_, _, err := ReadReadings(path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "행정구역")
}

func TestReadReadings_MissingFile(t *testing.T) {
	_, _, err := ReadReadings(filepath.Join(t.TempDir(), "nope.csv"), discardLogger())
	require.Error(t, err)
}

func TestReadReadings_RaggedRows(t *testing.T) {
	csv := "날짜,행정구역,시간,냄새지수,풍향,풍속\n" +
		"2025-10-01,보개면,9\n"
	path := writeFixture(t, "odor.csv", csv)

	readings, _, err := ReadReadings(path, discardLogger())
	require.NoError(t, err)

	require.Len(t, readings, 1)
	assert.Equal(t, 9, readings[0].Hour)
	assert.True(t, readings[0].HasOdor)
	assert.Zero(t, readings[0].Odor)
}
