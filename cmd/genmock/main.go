// Command genmock generates a mock input set for local development: a
// sensor CSV in the upstream export format (Korean headers, mixed hour
// token styles, occasional junk cells) plus matching region and barn
// GeoJSON layers laid out as a grid near Anseong.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data -seed 7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Grid origin, roughly the Anseong-si countryside.
const (
	originLon = 127.20
	originLat = 36.97
	cellSize  = 0.02
)

var regionNames = []string{
	"보개면 남풍리", "보개면 북좌리", "금광면 장계리", "금광면 사흥리",
	"양성면 동항리", "대덕면 모산리", "미양면 구례리", "서운면 현매리",
	"죽산면 장계리", "삼죽면 덕산리", "고삼면 월향리", "일죽면 화봉리",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "output directory for the generated files")
	year := flag.Int("year", 2025, "target year")
	month := flag.Int("month", 10, "target month")
	regions := flag.Int("regions", 12, "number of regions (max 12)")
	perDay := flag.Int("per-day", 6, "readings per region per active day")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *regions < 1 || *regions > len(regionNames) {
		return fmt.Errorf("-regions must be in 1..%d", len(regionNames))
	}

	rng := rand.New(rand.NewSource(*seed))
	names := regionNames[:*regions]

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	csvPath := filepath.Join(*outDir, "odor.csv")
	rows, err := writeCSV(csvPath, names, *year, *month, *perDay, rng)
	if err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	log.Printf("wrote %s: %d rows", csvPath, rows)

	regionsPath := filepath.Join(*outDir, "regions.geojson")
	if err := writeRegions(regionsPath, names); err != nil {
		return fmt.Errorf("writing regions: %w", err)
	}
	log.Printf("wrote %s: %d features", regionsPath, len(names))

	barnsPath := filepath.Join(*outDir, "barns.geojson")
	barns, err := writeBarns(barnsPath, len(names), rng)
	if err != nil {
		return fmt.Errorf("writing barns: %w", err)
	}
	log.Printf("wrote %s: %d features", barnsPath, barns)

	return nil
}

// writeCSV emits readings for the month, skipping a few days entirely
// so the calendar has gaps the way the real export does.
func writeCSV(path string, names []string, year, month, perDay int, rng *rand.Rand) (int, error) {
	var b strings.Builder
	b.WriteString("\uFEFF날짜,행정구역,시간,냄새지수,풍향,풍속\n")

	// A per-region base odor level keeps the choropleth interesting.
	base := make([]float64, len(names))
	for i := range base {
		base[i] = 1 + rng.Float64()*8
	}

	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	rows := 0

	for day := 1; day <= lastDay; day++ {
		if rng.Float64() < 0.2 {
			continue // sensor outage day
		}
		for ri, region := range names {
			for n := 0; n < perDay; n++ {
				hour := rng.Intn(24)
				odor := base[ri] + rng.NormFloat64()*1.5
				if odor < 0 {
					odor = 0
				}

				odorCell := fmt.Sprintf("%.1f", odor)
				if rng.Float64() < 0.03 {
					odorCell = "" // empty cell, reads as zero
				}

				windCell := fmt.Sprintf("%d", rng.Intn(360))
				speedCell := fmt.Sprintf("%.1f", rng.Float64()*8)
				if rng.Float64() < 0.05 {
					windCell, speedCell = "", ""
				}

				fmt.Fprintf(&b, "%04d-%02d-%02d,%s,%s,%s,%s,%s\n",
					year, month, day, region, hourToken(hour, rng), odorCell, windCell, speedCell)
				rows++
			}
		}
	}

	return rows, os.WriteFile(path, []byte(b.String()), 0o600)
}

// hourToken renders an hour in one of the formats seen in real exports.
func hourToken(hour int, rng *rand.Rand) string {
	switch rng.Intn(4) {
	case 0:
		return fmt.Sprintf("%d", hour)
	case 1:
		return fmt.Sprintf("%d시", hour)
	case 2:
		return fmt.Sprintf("%d:00", hour)
	default:
		return fmt.Sprintf("%02d:30", hour)
	}
}

// writeRegions lays the regions out as square cells on a grid, four
// per row.
func writeRegions(path string, names []string) error {
	fc := geojson.NewFeatureCollection()
	for i, name := range names {
		col := float64(i % 4)
		row := float64(i / 4)
		x := originLon + col*cellSize
		y := originLat + row*cellSize

		ring := orb.Ring{
			{x, y},
			{x + cellSize, y},
			{x + cellSize, y + cellSize},
			{x, y + cellSize},
			{x, y},
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["LI_KOR_NM"] = name
		fc.Append(f)
	}
	return writeGeoJSON(path, fc)
}

func writeBarns(path string, regionCount int, rng *rand.Rand) (int, error) {
	fc := geojson.NewFeatureCollection()
	count := regionCount * 2
	for i := 0; i < count; i++ {
		x := originLon + rng.Float64()*4*cellSize
		y := originLat + rng.Float64()*3*cellSize
		f := geojson.NewFeature(orb.Point{x, y})
		f.Properties["id"] = fmt.Sprintf("barn-%02d", i+1)
		fc.Append(f)
	}
	return count, writeGeoJSON(path, fc)
}

func writeGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
