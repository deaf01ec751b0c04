package domain

import "time"

// Mode selects the time window shape for aggregation.
type Mode string

const (
	ModeDay  Mode = "day"
	ModeWeek Mode = "week"
	ModeAll  Mode = "all"
)

// WindowSelector names a time window: a single day, the Monday-start
// week containing the anchor, or the whole dataset.
type WindowSelector struct {
	Mode   Mode
	Anchor CalendarDate
}

// MonthConfig identifies the target month the week enumeration and the
// calendar views are scoped to.
type MonthConfig struct {
	Year  int
	Month time.Month
}

// Contains reports whether d falls inside the target month.
func (m MonthConfig) Contains(d CalendarDate) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// FirstDay returns the first day of the target month.
func (m MonthConfig) FirstDay() CalendarDate {
	return CalendarDate{Year: m.Year, Month: m.Month, Day: 1}
}

// LastDay returns the number of days in the target month.
func (m MonthConfig) LastDay() int {
	// Day zero of the following month normalizes to this month's last day.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the given day-of-month as a CalendarDate.
func (m MonthConfig) Date(day int) CalendarDate {
	return CalendarDate{Year: m.Year, Month: m.Month, Day: day}
}

// DayWindow resolves a date to its inclusive [00:00:00, 23:59:59.999] span.
func DayWindow(d CalendarDate) (time.Time, time.Time) {
	return d.Time(), endOfDay(d)
}

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d CalendarDate) CalendarDate {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}

// WeekWindow resolves a date to the inclusive span of its Monday-start
// week: [Monday 00:00:00, Sunday 23:59:59.999].
func WeekWindow(d CalendarDate) (time.Time, time.Time) {
	start := StartOfWeek(d)
	return start.Time(), endOfDay(start.AddDays(6))
}

// WeekRange is a fixed calendar-row week of the target month. A nil
// endpoint means that end of the row falls outside the month: there is
// no data in that direction and callers shrink their search instead.
type WeekRange struct {
	Start *CalendarDate
	End   *CalendarDate
}

// WeekRowRange computes the i-th calendar row (1..5) of the target
// month as a 7-day Monday-start block, clamping each endpoint to nil
// when it falls outside the month. Out-of-range indexes yield a range
// with both endpoints nil.
func (m MonthConfig) WeekRowRange(i int) WeekRange {
	if i < 1 || i > 5 {
		return WeekRange{}
	}

	first := m.FirstDay()
	offset := (int(first.Weekday()) + 6) % 7

	start := first.AddDays((i-1)*7 - offset)
	end := start.AddDays(6)

	return WeekRange{Start: m.clamp(start), End: m.clamp(end)}
}

func (m MonthConfig) clamp(d CalendarDate) *CalendarDate {
	if !m.Contains(d) {
		return nil
	}
	return &d
}

func endOfDay(d CalendarDate) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
