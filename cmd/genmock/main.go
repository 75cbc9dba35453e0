// Command genmock writes a deterministic synthetic environmental damage
// dataset in the dashboard's CSV layout. Each survey year gets one row per
// country plus a "European Union" aggregate row holding the column sums.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/enviroment.csv -seed 7
//	go run ./cmd/genmock -out load.csv -countries 27 -missing 0.05
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/env-damage-dashboard/internal/adapter/csvsource"
	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

const euLabel = "European Union - 27 countries (from 2020)"

var countryPool = []string{
	"Austria", "Belgium", "Bulgaria", "Croatia", "Cyprus", "Czechia", "Denmark",
	"Estonia", "Finland", "France", "Germany", "Greece", "Hungary", "Ireland",
	"Italy", "Latvia", "Lithuania", "Luxembourg", "Malta", "Netherlands",
	"Poland", "Portugal", "Romania", "Slovakia", "Slovenia", "Spain", "Sweden",
}

// profile is the per-country scale of each metric in tonnes.
type profile struct {
	water, soil, forest float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	seed := flag.Uint64("seed", 7, "random seed")
	n := flag.Int("countries", 19, "number of countries (max 27)")
	missing := flag.Float64("missing", 0, "probability that a country metric cell is left blank")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *n < 1 || *n > len(countryPool) {
		return fmt.Errorf("-countries must be between 1 and %d", len(countryPool))
	}
	if *missing < 0 || *missing >= 1 {
		return fmt.Errorf("-missing must be in [0, 1)")
	}

	rows := generate(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), countryPool[:*n], *missing)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvsource.RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	log.Printf("wrote %d rows (%d countries, %d years) to %s", len(rows), *n, len(domain.ValidYears), *out)
	return nil
}

// generate returns data rows year by year, the EU aggregate first.
func generate(rng *rand.Rand, countries []string, missing float64) [][]string {
	profiles := make([]profile, len(countries))
	for i := range profiles {
		profiles[i] = profile{
			water:  math.Exp(9 + 2*rng.Float64()),
			soil:   math.Exp(7 + 2.5*rng.Float64()),
			forest: math.Exp(6 + 3*rng.Float64()),
		}
	}

	rows := make([][]string, 0, len(domain.ValidYears)*(len(countries)+1))
	for _, year := range domain.ValidYears {
		var sum profile
		yearRows := make([][]string, 0, len(countries))
		for i, c := range countries {
			p := profiles[i]
			v := profile{
				water:  jitter(rng, p.water),
				soil:   jitter(rng, p.soil),
				forest: jitter(rng, p.forest),
			}
			sum.water += v.water
			sum.soil += v.soil
			sum.forest += v.forest
			yearRows = append(yearRows, []string{
				c,
				strconv.Itoa(year),
				cell(rng, v.water, missing),
				cell(rng, v.soil, missing),
				cell(rng, v.forest, missing),
			})
		}
		rows = append(rows, []string{
			euLabel,
			strconv.Itoa(year),
			strconv.FormatFloat(math.Round(sum.water), 'f', 0, 64),
			strconv.FormatFloat(math.Round(sum.soil), 'f', 0, 64),
			strconv.FormatFloat(math.Round(sum.forest), 'f', 0, 64),
		})
		rows = append(rows, yearRows...)
	}
	return rows
}

// jitter varies base by up to ±35%.
func jitter(rng *rand.Rand, base float64) float64 {
	return base * (0.65 + 0.7*rng.Float64())
}

func cell(rng *rand.Rand, v, missing float64) string {
	if missing > 0 && rng.Float64() < missing {
		return ""
	}
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}
