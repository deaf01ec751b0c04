package loader

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/odorlab/odormap/internal/domain"
)

// RegionCollection pairs the region polygons with the normalized name
// of each feature, in feature order. Names are the join key against
// the CSV's region column.
type RegionCollection struct {
	Collection *geojson.FeatureCollection
	Names      []string
}

// ReadRegions parses the administrative-boundary GeoJSON. nameProp is
// the feature property holding the region name; features without it
// keep an empty name and never join to any reading.
func ReadRegions(path, nameProp string) (*RegionCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions geojson: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse regions geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("regions geojson has no features")
	}

	names := make([]string, len(fc.Features))
	for i, f := range fc.Features {
		name, _ := f.Properties[nameProp].(string)
		names[i] = domain.NormalizeKey(name)
	}

	return &RegionCollection{Collection: fc, Names: names}, nil
}

// ReadBarns parses the livestock-barn point layer. Features that are
// not points with finite coordinates are dropped.
func ReadBarns(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read barns geojson: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse barns geojson: %w", err)
	}

	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok || !finite(pt[0]) || !finite(pt[1]) {
			continue
		}
		out.Append(f)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
