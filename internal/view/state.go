package view

import (
	"github.com/odorlab/odormap/internal/domain"
)

// MapView selects which aggregate the choropleth shows: the accumulated
// mean over the whole selected window, or the slice at a single hour.
type MapView string

const (
	MapAccumulated MapView = "accumulated"
	MapHourlySlice MapView = "hourly"
)

// State is the complete selection a snapshot derives from. It is a
// plain comparable value: Reduce returns a new State and never mutates,
// and equal states always produce equal snapshots, which is what makes
// the snapshot cache sound.
type State struct {
	Mode      domain.Mode         `json:"mode"`
	Anchor    domain.CalendarDate `json:"anchor,omitzero"`
	WeekIndex int                 `json:"week_index,omitempty"`
	Hour      int                 `json:"hour"`
	MapView   MapView             `json:"map_view"`
}

// Event is a selection change request.
type Event interface {
	isEvent()
	name() string
}

// SelectDay anchors the window to a single calendar day.
type SelectDay struct {
	Date domain.CalendarDate
}

// SelectWeek selects calendar week row Index (1-based) of the target month.
type SelectWeek struct {
	Index int
}

// SelectAll widens the window to every day with data.
type SelectAll struct{}

// SetMapView switches the choropleth aggregate without touching the window.
type SetMapView struct {
	View MapView
}

// SetHour moves the hour cursor. The profile and wind indicators always
// follow it; the map does only in the hourly-slice view.
type SetHour struct {
	Hour int
}

// ReleaseHour ends an hour drag. The cursor keeps its position and the
// map view stays whatever the user chose, so the selection is unchanged.
type ReleaseHour struct{}

func (SelectDay) isEvent()   {}
func (SelectWeek) isEvent()  {}
func (SelectAll) isEvent()   {}
func (SetMapView) isEvent()  {}
func (SetHour) isEvent()     {}
func (ReleaseHour) isEvent() {}

func (SelectDay) name() string   { return "select_day" }
func (SelectWeek) name() string  { return "select_week" }
func (SelectAll) name() string   { return "select_all" }
func (SetMapView) name() string  { return "set_map_view" }
func (SetHour) name() string     { return "set_hour" }
func (ReleaseHour) name() string { return "release_hour" }

// Reduce applies an event to a state and returns the next state. It is
// pure and total; validation happens before events reach it.
func Reduce(state State, ev Event) State {
	next := state
	switch e := ev.(type) {
	case SelectDay:
		next.Mode = domain.ModeDay
		next.Anchor = e.Date
		next.WeekIndex = 0
	case SelectWeek:
		next.Mode = domain.ModeWeek
		next.Anchor = domain.CalendarDate{}
		next.WeekIndex = e.Index
	case SelectAll:
		next.Mode = domain.ModeAll
		next.Anchor = domain.CalendarDate{}
		next.WeekIndex = 0
	case SetMapView:
		next.MapView = e.View
	case SetHour:
		next.Hour = e.Hour
	case ReleaseHour:
		// drag end; the selection stays as it is
	}
	return next
}
