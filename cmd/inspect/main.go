// Command inspect loads a sensor CSV and prints a data-quality report:
// skip diagnostics, per-day reading counts, per-region coverage, and
// the level thresholds the service would derive. It is the quickest way
// to sanity-check a fresh export before deploying it.
//
// Usage:
//
//	go run ./cmd/inspect -csv data/odor.csv -year 2025 -month 10
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/odorlab/odormap/internal/domain"
	"github.com/odorlab/odormap/internal/loader"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	csvPath := flag.String("csv", "data/odor.csv", "path to the sensor CSV")
	year := flag.Int("year", 2025, "target year")
	month := flag.Int("month", 10, "target month")
	exclude := flag.String("exclude", "2025-09-30", "comma-separated dates to exclude")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	readings, stats, err := loader.ReadReadings(*csvPath, logger)
	if err != nil {
		return err
	}

	var excluded []domain.CalendarDate
	for _, part := range strings.Split(*exclude, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := domain.ParseCalendarDate(part)
		if err != nil {
			return fmt.Errorf("invalid -exclude entry %q", part)
		}
		excluded = append(excluded, d)
	}

	target := domain.MonthConfig{Year: *year, Month: time.Month(*month)}
	data := domain.NewDataset(readings, target, excluded, stats)

	printReport(os.Stdout, data)

	if len(data.ExistingDays()) == 0 {
		return fmt.Errorf("no readings fall inside %04d-%02d", *year, *month)
	}
	return nil
}

func printReport(out io.Writer, data *domain.Dataset) {
	s := data.Summarize()

	fmt.Fprintf(out, "=== Odor CSV Report (%04d-%02d) ===\n\n", data.Month.Year, int(data.Month.Month))
	fmt.Fprintf(out, "Rows kept: %d (odor=%d, wind=%d)\n", s.Readings, s.OdorReadings, s.WindReadings)
	fmt.Fprintf(out, "Rows dropped for bad date: %d\n", data.Skips.RejectedDate)
	fmt.Fprintf(out, "Partial rows: missing_region=%d bad_odor=%d bad_hour=%d bad_wind=%d\n",
		data.Skips.MissingRegion, data.Skips.BadOdor, data.Skips.BadHour, data.Skips.BadWind)
	fmt.Fprintf(out, "Regions: %d, days with data: %d\n", s.Regions, s.DaysWithData)
	fmt.Fprintf(out, "Odor index: mean=%.2f stddev=%.2f min=%.2f max=%.2f\n\n", s.MeanOdor, s.StdDevOdor, s.MinOdor, s.MaxOdor)

	printDays(out, data)
	printRegions(out, data)
	printLevels(out, data)
}

func printDays(out io.Writer, data *domain.Dataset) {
	counts := map[int]int{}
	for _, r := range data.Readings {
		if data.Month.Contains(r.Date) && !data.Excluded(r.Date) {
			counts[r.Date.Day]++
		}
	}

	fmt.Fprintln(out, "Per-day readings:")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for day := 1; day <= data.Month.LastDay(); day++ {
		if n, ok := counts[day]; ok {
			fmt.Fprintf(w, "  %02d\t%d\n", day, n)
		}
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printRegions(out io.Writer, data *domain.Dataset) {
	type regionCount struct {
		name string
		n    int
	}
	counts := map[string]int{}
	for _, r := range data.Readings {
		if r.Region != "" && !data.Excluded(r.Date) {
			counts[r.Region]++
		}
	}

	regions := make([]regionCount, 0, len(counts))
	for name, n := range counts {
		regions = append(regions, regionCount{name, n})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].n > regions[j].n })

	fmt.Fprintln(out, "Per-region readings:")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, rc := range regions {
		fmt.Fprintf(w, "  %s\t%d\n", rc.name, rc.n)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printLevels(out io.Writer, data *domain.Dataset) {
	scale := domain.BuildLevelScale(
		data.AggregateSpatial(domain.WindowSelector{Mode: domain.ModeAll}),
		domain.DefaultLevelCount,
	)

	fmt.Fprintf(out, "Level thresholds (%d levels):", scale.N)
	for _, th := range scale.Thresholds {
		fmt.Fprintf(out, " %.2f", th)
	}
	fmt.Fprintf(out, "\nColor domain: %.2f .. %.2f\n", scale.Lo, scale.Hi)
}
