// Package loader reads the service inputs: the sensor CSV and the
// region and barn GeoJSON files. Everything is read once at startup;
// the resulting Bundle is immutable afterwards.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/odorlab/odormap/internal/domain"
)

// Source CSV column headers. Header cells are matched after
// normalization, so stray BOMs and whitespace in the export do not
// break the mapping.
const (
	colDate      = "날짜"
	colRegion    = "행정구역"
	colHour      = "시간"
	colOdor      = "냄새지수"
	colWindDir   = "풍향"
	colWindSpeed = "풍속"
)

// ReadReadings parses the sensor CSV into readings plus skip
// diagnostics. Only rows with an unparseable date are dropped; rows
// with unusable individual fields stay, flagged through the Reading's
// presence fields, and are counted in the stats.
func ReadReadings(path string, logger *slog.Logger) ([]domain.Reading, domain.SkipStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.SkipStats{}, fmt.Errorf("open readings csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, domain.SkipStats{}, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, domain.SkipStats{}, err
	}

	var readings []domain.Reading
	var stats domain.SkipStats
	line := 1

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.SkipStats{}, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		raw := domain.RawRow{
			Date:      cell(rec, cols[colDate]),
			Region:    cell(rec, cols[colRegion]),
			Hour:      cell(rec, cols[colHour]),
			Odor:      cell(rec, cols[colOdor]),
			WindDir:   cell(rec, cols[colWindDir]),
			WindSpeed: cell(rec, cols[colWindSpeed]),
		}

		reading, skip := domain.ParseRow(raw)
		if skip == domain.SkipBadDate {
			stats.RejectedDate++
			logger.Debug("dropping row with unparseable date", "line", line, "date", raw.Date)
			continue
		}

		if reading.Region == "" {
			stats.MissingRegion++
		}
		if !reading.HasOdor {
			stats.BadOdor++
		}
		if reading.Hour < 0 && raw.Hour != "" {
			stats.BadHour++
		}
		if !reading.HasWind && (raw.WindDir != "" || raw.WindSpeed != "") {
			stats.BadWind++
		}

		readings = append(readings, reading)
	}

	return readings, stats, nil
}

// mapColumns resolves header cells to column indexes. The date, region,
// and odor columns are required; the hour and wind columns are optional
// and map to -1 when absent.
func mapColumns(header []string) (map[string]int, error) {
	cols := map[string]int{
		colDate:      -1,
		colRegion:    -1,
		colHour:      -1,
		colOdor:      -1,
		colWindDir:   -1,
		colWindSpeed: -1,
	}
	for i, h := range header {
		key := domain.NormalizeKey(h)
		if _, known := cols[key]; known {
			cols[key] = i
		}
	}

	for _, required := range []string{colDate, colRegion, colOdor} {
		if cols[required] < 0 {
			return nil, fmt.Errorf("readings csv is missing required column %q", required)
		}
	}
	return cols, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
