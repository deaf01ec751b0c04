package domain

import (
	"math"
	"time"
)

// WindVector is the circular-mean wind for one hour bucket.
type WindVector struct {
	DirectionDeg float64 `json:"direction"`
	Speed        float64 `json:"speed"`
}

// AggregateSpatial reduces readings in the selected window to a mean
// odor index per region. Regions with no matching reading are absent
// from the result; callers render absence as "no data".
func (d *Dataset) AggregateSpatial(sel WindowSelector) map[string]float64 {
	var start, end time.Time
	switch sel.Mode {
	case ModeDay:
		start, end = DayWindow(sel.Anchor)
	case ModeWeek:
		start, end = WeekWindow(sel.Anchor)
	}

	sum := make(map[string]float64)
	cnt := make(map[string]int)

	for _, r := range d.Readings {
		if r.Date.IsZero() || d.Excluded(r.Date) {
			continue
		}
		if sel.Mode != ModeAll {
			t := r.Date.Time()
			if t.Before(start) || t.After(end) {
				continue
			}
		}
		if r.Region == "" || !r.HasOdor {
			continue
		}
		sum[r.Region] += r.Odor
		cnt[r.Region]++
	}

	out := make(map[string]float64, len(sum))
	for region, s := range sum {
		out[region] = s / float64(cnt[region])
	}
	return out
}

// AggregateSpatialHour is the hourly-slice variant of AggregateSpatial:
// only readings stamped with exactly the given hour contribute. In week
// mode the window comes from the supplied WeekRange; a nil endpoint
// means the week row has no days inside the target month in that
// direction, and the result is empty.
func (d *Dataset) AggregateSpatialHour(sel WindowSelector, hour int, week WeekRange) map[string]float64 {
	var start, end time.Time
	switch sel.Mode {
	case ModeDay:
		start, end = DayWindow(sel.Anchor)
	case ModeWeek:
		if week.Start == nil || week.End == nil {
			return map[string]float64{}
		}
		start = week.Start.Time()
		end = endOfDay(*week.End)
	}

	sum := make(map[string]float64)
	cnt := make(map[string]int)

	for _, r := range d.Readings {
		if r.Date.IsZero() || d.Excluded(r.Date) {
			continue
		}
		if sel.Mode != ModeAll {
			t := r.Date.Time()
			if t.Before(start) || t.After(end) {
				continue
			}
		}
		if r.Hour != hour {
			continue
		}
		if r.Region == "" || !r.HasOdor {
			continue
		}
		sum[r.Region] += r.Odor
		cnt[r.Region]++
	}

	out := make(map[string]float64, len(sum))
	for region, s := range sum {
		out[region] = s / float64(cnt[region])
	}
	return out
}

// AggregateSpatialRange reduces readings between two days of the target
// month, inclusive, to a mean odor index per region.
func (d *Dataset) AggregateSpatialRange(startDay, endDay int) map[string]float64 {
	sum := make(map[string]float64)
	cnt := make(map[string]int)

	for _, r := range d.Readings {
		if !d.Month.Contains(r.Date) || d.Excluded(r.Date) {
			continue
		}
		if r.Date.Day < startDay || r.Date.Day > endDay {
			continue
		}
		if r.Region == "" || !r.HasOdor {
			continue
		}
		sum[r.Region] += r.Odor
		cnt[r.Region]++
	}

	out := make(map[string]float64, len(sum))
	for region, s := range sum {
		out[region] = s / float64(cnt[region])
	}
	return out
}

// HourlyProfileDay reduces one day's readings to a 24-slot mean odor
// profile. Hours with no readings report 0, never null: the profile
// curve always has 24 defined points.
func (d *Dataset) HourlyProfileDay(date CalendarDate) [24]float64 {
	var sum [24]float64
	var cnt [24]int

	for _, r := range d.Readings {
		if r.Date != date || d.Excluded(r.Date) {
			continue
		}
		if r.Hour < 0 || r.Hour > 23 || !r.HasOdor {
			continue
		}
		sum[r.Hour] += r.Odor
		cnt[r.Hour]++
	}

	return profileMeans(sum, cnt)
}

// HourlyProfileRange is the day-range variant of HourlyProfileDay,
// bounded by day-of-month within the target month.
func (d *Dataset) HourlyProfileRange(startDay, endDay int) [24]float64 {
	var sum [24]float64
	var cnt [24]int

	for _, r := range d.Readings {
		if !d.Month.Contains(r.Date) || d.Excluded(r.Date) {
			continue
		}
		if r.Date.Day < startDay || r.Date.Day > endDay {
			continue
		}
		if r.Hour < 0 || r.Hour > 23 || !r.HasOdor {
			continue
		}
		sum[r.Hour] += r.Odor
		cnt[r.Hour]++
	}

	return profileMeans(sum, cnt)
}

// WindByHourDay reduces one day's wind readings to a 24-slot circular
// mean. Hours with no wind readings report nil, distinct from the odor
// profile's zero-fill: the indicator must show "no data", not a zero
// vector.
func (d *Dataset) WindByHourDay(date CalendarDate) [24]*WindVector {
	var acc windAccumulator
	for _, r := range d.Readings {
		if r.Date != date || d.Excluded(r.Date) {
			continue
		}
		acc.add(r)
	}
	return acc.vectors()
}

// WindByHourRange is the day-range variant of WindByHourDay, bounded by
// day-of-month within the target month.
func (d *Dataset) WindByHourRange(startDay, endDay int) [24]*WindVector {
	var acc windAccumulator
	for _, r := range d.Readings {
		if !d.Month.Contains(r.Date) || d.Excluded(r.Date) {
			continue
		}
		if r.Date.Day < startDay || r.Date.Day > endDay {
			continue
		}
		acc.add(r)
	}
	return acc.vectors()
}

// NarrowWeekBounds resolves week row i to the day range that actually
// holds data: nil endpoints widen to the month edge, then both ends
// walk inward past empty days. ok is false when the bounds invert,
// meaning the week has no data at all.
func (d *Dataset) NarrowWeekBounds(i int) (startDay, endDay int, ok bool) {
	wr := d.Month.WeekRowRange(i)
	if wr.Start == nil && wr.End == nil {
		return 0, 0, false
	}

	startDay = 1
	if wr.Start != nil {
		startDay = wr.Start.Day
	}
	endDay = d.Month.LastDay()
	if wr.End != nil {
		endDay = wr.End.Day
	}

	for startDay <= endDay && !d.HasDay(startDay) {
		startDay++
	}
	for endDay >= startDay && !d.HasDay(endDay) {
		endDay--
	}
	if startDay > endDay {
		return 0, 0, false
	}
	return startDay, endDay, true
}

// windAccumulator sums wind vectors per hour bucket. Direction is
// accumulated as cos/sin components; averaging raw degrees would be
// wrong at the 0°/360° boundary.
type windAccumulator struct {
	x     [24]float64
	y     [24]float64
	speed [24]float64
	cnt   [24]int
}

func (a *windAccumulator) add(r Reading) {
	if r.Hour < 0 || r.Hour > 23 || !r.HasWind {
		return
	}
	rad := r.WindDir * math.Pi / 180
	a.x[r.Hour] += math.Cos(rad)
	a.y[r.Hour] += math.Sin(rad)
	a.speed[r.Hour] += r.WindSpeed
	a.cnt[r.Hour]++
}

func (a *windAccumulator) vectors() [24]*WindVector {
	var out [24]*WindVector
	for h := 0; h < 24; h++ {
		if a.cnt[h] == 0 {
			continue
		}
		out[h] = &WindVector{
			DirectionDeg: math.Atan2(a.y[h], a.x[h]) * 180 / math.Pi,
			Speed:        a.speed[h] / float64(a.cnt[h]),
		}
	}
	return out
}

func profileMeans(sum [24]float64, cnt [24]int) [24]float64 {
	var out [24]float64
	for h := 0; h < 24; h++ {
		if cnt[h] > 0 {
			out[h] = sum[h] / float64(cnt[h])
		}
	}
	return out
}
