package domain

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SkipStats counts readings that were rejected or partially invalid at
// ingestion. Rejected rows are gone; the per-field counts are
// diagnostics for readings that remain but sit out some aggregates.
type SkipStats struct {
	RejectedDate  int // rows dropped for an unparseable date
	MissingRegion int // readings with an empty region key
	BadOdor       int // readings with a non-numeric odor cell
	BadHour       int // readings with an unusable hour token
	BadWind       int // readings missing a usable direction/speed pair
}

// Dataset is the immutable reading set every view derives from. It is
// built once at load; nothing mutates it afterwards.
type Dataset struct {
	Readings []Reading
	Month    MonthConfig
	Skips    SkipStats
	LoadedAt time.Time

	excluded     map[CalendarDate]struct{}
	existingDays map[int]struct{}
	maxDay       int
}

// NewDataset indexes the readings: which days of the target month have
// any data, and which dates are excluded from every aggregate.
func NewDataset(readings []Reading, month MonthConfig, excluded []CalendarDate, skips SkipStats) *Dataset {
	d := &Dataset{
		Readings:     readings,
		Month:        month,
		Skips:        skips,
		LoadedAt:     clock.Now(),
		excluded:     make(map[CalendarDate]struct{}, len(excluded)),
		existingDays: make(map[int]struct{}),
	}
	for _, e := range excluded {
		d.excluded[e] = struct{}{}
	}
	for _, r := range readings {
		if !month.Contains(r.Date) {
			continue
		}
		d.existingDays[r.Date.Day] = struct{}{}
		if r.Date.Day > d.maxDay {
			d.maxDay = r.Date.Day
		}
	}
	return d
}

// Excluded reports whether the date is barred from every aggregate.
func (d *Dataset) Excluded(date CalendarDate) bool {
	_, ok := d.excluded[date]
	return ok
}

// HasDay reports whether the given day of the target month has any reading.
func (d *Dataset) HasDay(day int) bool {
	_, ok := d.existingDays[day]
	return ok
}

// ExistingDays returns the sorted days of the target month that have data.
func (d *Dataset) ExistingDays() []int {
	days := make([]int, 0, len(d.existingDays))
	for day := range d.existingDays {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// FirstDay returns the earliest day of the target month with data, or 0.
func (d *Dataset) FirstDay() int {
	days := d.ExistingDays()
	if len(days) == 0 {
		return 0
	}
	return days[0]
}

// MaxDay returns the latest day of the target month with data, or 0.
func (d *Dataset) MaxDay() int {
	return d.maxDay
}

// Summary describes the loaded dataset for the startup log and the
// summary endpoint.
type Summary struct {
	Readings     int     `json:"readings"`
	OdorReadings int     `json:"odor_readings"`
	WindReadings int     `json:"wind_readings"`
	Regions      int     `json:"regions"`
	DaysWithData int     `json:"days_with_data"`
	MeanOdor     float64 `json:"mean_odor"`
	StdDevOdor   float64 `json:"stddev_odor"`
	MinOdor      float64 `json:"min_odor"`
	MaxOdor      float64 `json:"max_odor"`
}

// Summarize computes descriptive statistics over the odor readings.
// Excluded dates are left out so the summary matches what the views
// can ever show.
func (d *Dataset) Summarize() Summary {
	s := Summary{
		Readings:     len(d.Readings),
		DaysWithData: len(d.existingDays),
	}

	regions := make(map[string]struct{})
	var odor []float64
	for _, r := range d.Readings {
		if r.Date.IsZero() || d.Excluded(r.Date) {
			continue
		}
		if r.Region != "" {
			regions[r.Region] = struct{}{}
		}
		if r.HasOdor {
			odor = append(odor, r.Odor)
		}
		if r.HasWind {
			s.WindReadings++
		}
	}

	s.Regions = len(regions)
	s.OdorReadings = len(odor)
	if len(odor) > 0 {
		s.MeanOdor = stat.Mean(odor, nil)
		s.MinOdor = floats.Min(odor)
		s.MaxOdor = floats.Max(odor)
	}
	if len(odor) > 1 {
		s.StdDevOdor = stat.StdDev(odor, nil)
	}
	return s
}
