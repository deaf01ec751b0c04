package view

import (
	"fmt"
	"time"

	"github.com/odorlab/odormap/internal/domain"
)

// Snapshot is everything one selection renders to: the choropleth
// means and levels, the 24-hour odor profile, the per-hour wind, and a
// human-readable label for the selected range. It is a pure function
// of (dataset, level scale, state) except for GeneratedAt.
type Snapshot struct {
	State        State                  `json:"state"`
	RegionMeans  map[string]float64     `json:"region_means"`
	RegionLevels map[string]int         `json:"region_levels"`
	Profile      [24]float64            `json:"profile"`
	Wind         [24]*domain.WindVector `json:"wind"`
	SelectedWind *domain.WindVector     `json:"selected_wind,omitempty"`
	RangeLabel   string                 `json:"range_label"`
	NoData       bool                   `json:"no_data"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// buildSnapshot aggregates the dataset for one selection state.
func buildSnapshot(data *domain.Dataset, levels domain.LevelScale, st State) Snapshot {
	snap := Snapshot{
		State:       st,
		RegionMeans: map[string]float64{},
		GeneratedAt: domain.Now(),
	}

	switch st.Mode {
	case domain.ModeDay:
		buildDay(data, st, &snap)
	case domain.ModeWeek:
		buildWeek(data, st, &snap)
	case domain.ModeAll:
		buildAll(data, st, &snap)
	}

	snap.RegionLevels = make(map[string]int, len(snap.RegionMeans))
	for region, mean := range snap.RegionMeans {
		snap.RegionLevels[region] = levels.Classify(mean)
	}
	if st.Hour >= 0 && st.Hour < 24 {
		snap.SelectedWind = snap.Wind[st.Hour]
	}
	return snap
}

func buildDay(data *domain.Dataset, st State, snap *Snapshot) {
	sel := domain.WindowSelector{Mode: domain.ModeDay, Anchor: st.Anchor}

	snap.Profile = data.HourlyProfileDay(st.Anchor)
	snap.Wind = data.WindByHourDay(st.Anchor)
	snap.RangeLabel = st.Anchor.String()

	if st.MapView == MapHourlySlice {
		snap.RegionMeans = data.AggregateSpatialHour(sel, st.Hour, domain.WeekRange{})
		return
	}
	snap.RegionMeans = data.AggregateSpatial(sel)
}

func buildWeek(data *domain.Dataset, st State, snap *Snapshot) {
	startDay, endDay, ok := data.NarrowWeekBounds(st.WeekIndex)
	if !ok {
		snap.NoData = true
		snap.RangeLabel = fmt.Sprintf("week %d (no data)", st.WeekIndex)
		return
	}

	start := data.Month.Date(startDay)
	end := data.Month.Date(endDay)

	snap.Profile = data.HourlyProfileRange(startDay, endDay)
	snap.Wind = data.WindByHourRange(startDay, endDay)
	snap.RangeLabel = fmt.Sprintf("week %d (%s to %s)", st.WeekIndex, start, end)

	if st.MapView == MapHourlySlice {
		sel := domain.WindowSelector{Mode: domain.ModeWeek, Anchor: start}
		snap.RegionMeans = data.AggregateSpatialHour(sel, st.Hour, domain.WeekRange{Start: &start, End: &end})
		return
	}
	snap.RegionMeans = data.AggregateSpatialRange(startDay, endDay)
}

func buildAll(data *domain.Dataset, st State, snap *Snapshot) {
	maxDay := data.MaxDay()
	if maxDay == 0 {
		snap.NoData = true
		snap.RangeLabel = "all days (no data)"
		return
	}

	snap.Profile = data.HourlyProfileRange(1, maxDay)
	snap.Wind = data.WindByHourRange(1, maxDay)
	snap.RangeLabel = fmt.Sprintf("all days (%s to %s)", data.Month.FirstDay(), data.Month.Date(maxDay))

	sel := domain.WindowSelector{Mode: domain.ModeAll}
	if st.MapView == MapHourlySlice {
		snap.RegionMeans = data.AggregateSpatialHour(sel, st.Hour, domain.WeekRange{})
		return
	}
	snap.RegionMeans = data.AggregateSpatial(sel)
}
