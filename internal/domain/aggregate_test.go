package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentinel = CalendarDate{Year: 2025, Month: time.September, Day: 30}

func newTestDataset(readings ...Reading) *Dataset {
	return NewDataset(readings, october, []CalendarDate{sentinel}, SkipStats{})
}

func odorAt(date CalendarDate, region string, hour int, odor float64) Reading {
	return Reading{Date: date, Region: region, Hour: hour, Odor: odor, HasOdor: true}
}

func windAt(date CalendarDate, hour int, dir, speed float64) Reading {
	return Reading{Date: date, Region: "R", Hour: hour, WindDir: dir, WindSpeed: speed, HasWind: true}
}

func TestAggregateSpatial_DayMean(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(1), "A", 9, 10),
		odorAt(oct(1), "A", 9, 20),
	)

	got := d.AggregateSpatial(WindowSelector{Mode: ModeDay, Anchor: oct(1)})

	require.Len(t, got, 1)
	assert.Equal(t, 15.0, got["A"])
}

func TestAggregateSpatial_DayInvariantToOtherDates(t *testing.T) {
	base := []Reading{
		odorAt(oct(1), "A", 9, 10),
		odorAt(oct(1), "A", 9, 20),
	}
	noisy := append([]Reading{
		odorAt(oct(2), "A", 9, 999),
		odorAt(oct(31), "B", 3, 50),
	}, base...)

	want := newTestDataset(base...).AggregateSpatial(WindowSelector{Mode: ModeDay, Anchor: oct(1)})
	got := newTestDataset(noisy...).AggregateSpatial(WindowSelector{Mode: ModeDay, Anchor: oct(1)})

	assert.Equal(t, want, got)
}

func TestAggregateSpatial_ExcludedDateNeverContributes(t *testing.T) {
	d := newTestDataset(
		odorAt(sentinel, "A", 9, 100),
		odorAt(oct(1), "A", 9, 10),
	)

	t.Run("all mode", func(t *testing.T) {
		got := d.AggregateSpatial(WindowSelector{Mode: ModeAll})
		assert.Equal(t, 10.0, got["A"])
	})

	t.Run("week window spanning the excluded date", func(t *testing.T) {
		// The week of October 1 runs September 29 through October 5.
		got := d.AggregateSpatial(WindowSelector{Mode: ModeWeek, Anchor: oct(1)})
		assert.Equal(t, 10.0, got["A"])
	})

	t.Run("day mode on the excluded date itself", func(t *testing.T) {
		got := d.AggregateSpatial(WindowSelector{Mode: ModeDay, Anchor: sentinel})
		assert.Empty(t, got)
	})
}

func TestAggregateSpatial_SkipsUnusableReadings(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(1), "A", 9, 10),
		Reading{Date: oct(1), Region: "", Hour: 9, Odor: 99, HasOdor: true}, // no region key
		Reading{Date: oct(1), Region: "A", Hour: 9},                         // no odor value
	)

	got := d.AggregateSpatial(WindowSelector{Mode: ModeDay, Anchor: oct(1)})

	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got["A"])
}

func TestAggregateSpatial_WeekWindow(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(6), "A", 1, 10),  // monday of week 2
		odorAt(oct(12), "A", 1, 30), // sunday of week 2
		odorAt(oct(13), "A", 1, 999),
	)

	got := d.AggregateSpatial(WindowSelector{Mode: ModeWeek, Anchor: oct(8)})

	assert.Equal(t, 20.0, got["A"])
}

func TestAggregateSpatialHour(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(1), "A", 9, 10),
		odorAt(oct(1), "A", 9, 30),
		odorAt(oct(1), "A", 10, 999),
		Reading{Date: oct(1), Region: "B", Hour: -1, Odor: 5, HasOdor: true}, // unknown hour never matches
	)

	t.Run("filters to the exact hour", func(t *testing.T) {
		got := d.AggregateSpatialHour(WindowSelector{Mode: ModeDay, Anchor: oct(1)}, 9, WeekRange{})
		require.Len(t, got, 1)
		assert.Equal(t, 20.0, got["A"])
	})

	t.Run("no readings at the hour yields an all-absent map", func(t *testing.T) {
		got := d.AggregateSpatialHour(WindowSelector{Mode: ModeDay, Anchor: oct(1)}, 14, WeekRange{})
		assert.Empty(t, got)
	})

	t.Run("week mode uses the supplied range", func(t *testing.T) {
		start, end := oct(1), oct(5)
		got := d.AggregateSpatialHour(WindowSelector{Mode: ModeWeek, Anchor: oct(1)}, 9, WeekRange{Start: &start, End: &end})
		assert.Equal(t, 20.0, got["A"])
	})

	t.Run("week mode with a nil endpoint is empty", func(t *testing.T) {
		end := oct(5)
		got := d.AggregateSpatialHour(WindowSelector{Mode: ModeWeek, Anchor: oct(1)}, 9, WeekRange{End: &end})
		assert.Empty(t, got)
	})

	t.Run("all mode ignores dates", func(t *testing.T) {
		got := d.AggregateSpatialHour(WindowSelector{Mode: ModeAll}, 10, WeekRange{})
		assert.Equal(t, 999.0, got["A"])
	})
}

func TestAggregateSpatialRange(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(6), "A", 1, 10),
		odorAt(oct(10), "A", 2, 30),
		odorAt(oct(13), "A", 1, 999),
		odorAt(CalendarDate{2025, time.September, 29}, "A", 1, 999),
	)

	got := d.AggregateSpatialRange(6, 12)

	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got["A"])
}

func TestHourlyProfileDay(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(1), "A", 9, 10),
		odorAt(oct(1), "B", 9, 20),
		odorAt(oct(1), "A", 23, 7),
		odorAt(oct(2), "A", 9, 999), // other day
		odorAt(sentinel, "A", 9, 999),
	)

	got := d.HourlyProfileDay(oct(1))

	assert.Len(t, got, 24)
	assert.Equal(t, 15.0, got[9])
	assert.Equal(t, 7.0, got[23])
	for h, v := range got {
		if h != 9 && h != 23 {
			assert.Zero(t, v, "hour %d", h)
		}
	}
}

func TestHourlyProfileRange(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(6), "A", 5, 10),
		odorAt(oct(12), "A", 5, 30),
		odorAt(oct(13), "A", 5, 999),
		odorAt(CalendarDate{2025, time.November, 6}, "A", 5, 999), // outside the target month
	)

	got := d.HourlyProfileRange(6, 12)

	assert.Equal(t, 20.0, got[5])
}

func TestWindByHour_CircularMeanAtWraparound(t *testing.T) {
	d := newTestDataset(
		windAt(oct(1), 5, 350, 1),
		windAt(oct(1), 5, 10, 1),
	)

	got := d.WindByHourDay(oct(1))

	require.NotNil(t, got[5])
	assert.InDelta(t, 0.0, got[5].DirectionDeg, 1e-9)
	assert.InDelta(t, 1.0, got[5].Speed, 1e-9)
}

func TestWindByHour_VectorMean(t *testing.T) {
	d := newTestDataset(
		windAt(oct(1), 5, 0, 2),
		windAt(oct(1), 5, 90, 4),
	)

	got := d.WindByHourDay(oct(1))

	require.NotNil(t, got[5])
	assert.InDelta(t, 45.0, got[5].DirectionDeg, 1e-9)
	assert.InDelta(t, 3.0, got[5].Speed, 1e-9)
}

func TestWindByHour_NilFillsEmptyHours(t *testing.T) {
	d := newTestDataset(windAt(oct(1), 5, 180, 2))

	got := d.WindByHourDay(oct(1))

	assert.Len(t, got, 24)
	for h, v := range got {
		if h == 5 {
			assert.NotNil(t, v)
			continue
		}
		assert.Nil(t, v, "hour %d", h)
	}
}

func TestWindByHour_RequiresWindPair(t *testing.T) {
	d := newTestDataset(
		Reading{Date: oct(1), Region: "R", Hour: 5, WindDir: 90}, // HasWind false
	)

	got := d.WindByHourDay(oct(1))

	assert.Nil(t, got[5])
}

func TestWindByHourRange(t *testing.T) {
	d := newTestDataset(
		windAt(oct(6), 5, 90, 2),
		windAt(oct(12), 5, 90, 4),
		windAt(oct(13), 5, 0, 100),
	)

	got := d.WindByHourRange(6, 12)

	require.NotNil(t, got[5])
	assert.InDelta(t, 90.0, got[5].DirectionDeg, 1e-9)
	assert.InDelta(t, 3.0, got[5].Speed, 1e-9)
}

func TestNarrowWeekBounds(t *testing.T) {
	d := newTestDataset(
		odorAt(oct(8), "A", 1, 1),
		odorAt(oct(10), "A", 1, 1),
	)

	t.Run("shrinks to the days with data", func(t *testing.T) {
		start, end, ok := d.NarrowWeekBounds(2) // row 6..12
		require.True(t, ok)
		assert.Equal(t, 8, start)
		assert.Equal(t, 10, end)
	})

	t.Run("week with no data inverts", func(t *testing.T) {
		_, _, ok := d.NarrowWeekBounds(3)
		assert.False(t, ok)
	})

	t.Run("clamped start widens to the month edge", func(t *testing.T) {
		d2 := newTestDataset(odorAt(oct(1), "A", 1, 1))
		start, end, ok := d2.NarrowWeekBounds(1) // row start is outside October
		require.True(t, ok)
		assert.Equal(t, 1, start)
		assert.Equal(t, 1, end)
	})

	t.Run("out of range index", func(t *testing.T) {
		_, _, ok := d.NarrowWeekBounds(9)
		assert.False(t, ok)
	})
}

func TestWindAccumulationIsMergeable(t *testing.T) {
	// Partial accumulators merged in any order must agree with a single
	// pass, since the reduction is plain sums per bucket.
	readings := []Reading{
		windAt(oct(1), 5, 10, 1),
		windAt(oct(1), 5, 200, 3),
		windAt(oct(1), 5, 350, 2),
	}

	var whole windAccumulator
	for _, r := range readings {
		whole.add(r)
	}

	var left, right windAccumulator
	left.add(readings[2])
	right.add(readings[0])
	right.add(readings[1])

	var merged windAccumulator
	for h := 0; h < 24; h++ {
		merged.x[h] = left.x[h] + right.x[h]
		merged.y[h] = left.y[h] + right.y[h]
		merged.speed[h] = left.speed[h] + right.speed[h]
		merged.cnt[h] = left.cnt[h] + right.cnt[h]
	}

	want := whole.vectors()
	got := merged.vectors()
	require.NotNil(t, got[5])
	assert.InDelta(t, want[5].DirectionDeg, got[5].DirectionDeg, 1e-9)
	assert.InDelta(t, want[5].Speed, got[5].Speed, 1e-9)
}
