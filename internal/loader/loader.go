package loader

import (
	"log/slog"

	"github.com/paulmach/orb/geojson"

	"github.com/odorlab/odormap/internal/config"
	"github.com/odorlab/odormap/internal/domain"
	"github.com/odorlab/odormap/internal/observability"
)

// Bundle is everything the service loads at startup.
type Bundle struct {
	Dataset     *domain.Dataset
	Regions     *geojson.FeatureCollection
	RegionNames []string
	Barns       *geojson.FeatureCollection
}

// LoadAll reads the CSV and both GeoJSON layers, builds the dataset,
// and reports how well the two region keyspaces join. Loading is all or
// nothing: any unreadable required input fails the whole load.
func LoadAll(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Bundle, error) {
	readings, stats, err := ReadReadings(cfg.ReadingsCSV, logger)
	if err != nil {
		return nil, err
	}

	regions, err := ReadRegions(cfg.RegionsGeoJSON, cfg.RegionNameProperty)
	if err != nil {
		return nil, err
	}

	barns, err := ReadBarns(cfg.BarnsGeoJSON)
	if err != nil {
		return nil, err
	}

	dataset := domain.NewDataset(readings, cfg.TargetMonth, cfg.ExcludeDates, stats)

	metrics.ReadingsLoaded.Add(float64(len(readings)))
	metrics.ReadingsSkipped.WithLabelValues("bad_date").Add(float64(stats.RejectedDate))
	metrics.ReadingsSkipped.WithLabelValues("missing_region").Add(float64(stats.MissingRegion))
	metrics.ReadingsSkipped.WithLabelValues("bad_odor").Add(float64(stats.BadOdor))
	metrics.ReadingsSkipped.WithLabelValues("bad_hour").Add(float64(stats.BadHour))
	metrics.ReadingsSkipped.WithLabelValues("bad_wind").Add(float64(stats.BadWind))

	logJoinDiagnostics(logger, dataset, regions)

	return &Bundle{
		Dataset:     dataset,
		Regions:     regions.Collection,
		RegionNames: regions.Names,
		Barns:       barns,
	}, nil
}

// logJoinDiagnostics compares the CSV region keys against the GeoJSON
// names. Readings for regions missing from the map render nowhere, and
// map features without readings always show as "no data", so both
// mismatch directions are worth a line in the log.
func logJoinDiagnostics(logger *slog.Logger, dataset *domain.Dataset, regions *RegionCollection) {
	mapNames := make(map[string]struct{}, len(regions.Names))
	for _, n := range regions.Names {
		if n != "" {
			mapNames[n] = struct{}{}
		}
	}

	csvNames := make(map[string]struct{})
	for _, r := range dataset.Readings {
		if r.Region != "" {
			csvNames[r.Region] = struct{}{}
		}
	}

	var unmapped, silent int
	for n := range csvNames {
		if _, ok := mapNames[n]; !ok {
			unmapped++
		}
	}
	for n := range mapNames {
		if _, ok := csvNames[n]; !ok {
			silent++
		}
	}

	logger.Info("region join",
		"csv_regions", len(csvNames),
		"map_regions", len(mapNames),
		"csv_only", unmapped,
		"map_only", silent,
	)
	if unmapped > 0 {
		logger.Warn("some csv regions have no matching map feature", "count", unmapped)
	}
}
