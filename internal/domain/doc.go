// Package domain models odor sensor readings for the Anseong odor map
// and implements the temporal-spatial aggregation behind its three
// synchronized views: the per-region choropleth, the 24-hour odor
// profile, and the hourly wind indicator.
//
// # Data Source
//
// Readings arrive as a CSV exported from the municipal sensor sheet.
// Column headers are Korean:
//
//	날짜      date, strictly "YYYY-MM-DD"
//	행정구역  administrative sub-region (리) name, the spatial join key
//	시간      hour-of-day token (several formats, see below)
//	냄새지수  odor index, the primary scalar measurement
//	풍향      wind direction in degrees (0–360, meteorological)
//	풍속      wind speed
//
// # Field Conventions
//
// Region names and date strings are normalized with [NormalizeKey]
// before use: Unicode NFC, byte-order marks and CR/LF/TAB stripped,
// all whitespace removed. Two spellings that normalize identically are
// the same region. The same normalization is applied to geometry
// feature properties so the join survives encoding noise in either
// source.
//
// Hour tokens appear in four shapes, tried in this order (first match
// wins): a bare integer ("9"), an "H:" prefix ("9:30"), an "H시" prefix
// ("9시"), and an embedded "H:MM" anywhere in the token. The priority
// order is load-bearing for ambiguous tokens and is pinned by tests
// rather than simplified. See [ParseHour].
//
// Empty numeric cells read as zero, matching how the source sheet is
// filled in (an unmeasured cell is blank, a calm reading is written 0;
// both arrive as odor/speed zero). Non-numeric garbage in a cell
// excludes the reading from every aggregate that needs that field; a
// row whose date fails to parse is rejected outright, since every
// aggregate filters by date.
//
// # Excluded Dates
//
// The pilot deployment produced a partial, known-bad day of data on
// 2025-09-30. That date is excluded from every aggregate under every
// window mode. The exclusion set is configuration (EXCLUDE_DATES) with
// that date as its default; see [Dataset].
//
// # Aggregation
//
// All aggregators are single-pass sum+count reductions (cos/sin+count
// for wind), so partial results merge order-independently if the
// reading set is ever sharded. Wind direction is averaged as a vector
// (atan2 of summed sines and cosines); an arithmetic mean of degrees
// is wrong at the 0°/360° boundary. The odor profile zero-fills hours
// with no readings while the wind aggregate nil-fills them: "no odor
// signal" renders as zero, "no wind signal" renders as no arrow, and
// the two must not be unified.
//
// # Levels
//
// Region means are bucketed into six intensity levels using quantile
// thresholds at i/6 over the sorted positive all-time means, built
// once at load and never rebuilt as the selection changes. Level 0
// means "no data". See [BuildLevelScale].
package domain
