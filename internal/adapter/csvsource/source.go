package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

// Column names of the survey export.
const (
	ColCountry           = "COUNTRIES"
	ColYear              = "year"
	ColWaterPollution    = "water_pollution"
	ColSoilContamination = "soil_contamination"
	ColDeforestation     = "deforestation"
)

// RequiredColumns must all be present in the header.
var RequiredColumns = []string{ColCountry, ColYear, ColWaterPollution, ColSoilContamination, ColDeforestation}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ParseError points at a bad cell.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source loads the dataset from a CSV file on disk.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a Source for path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Load reads and parses the file. Any error is fatal for the caller: there is
// no partial dataset.
func (s *Source) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse dataset %s: %w", s.path, err)
	}

	s.logger.Info("dataset loaded",
		"path", s.path,
		"rows", ds.Len(),
		"countries", len(ds.Countries()),
		"years", ds.Years(),
	)
	return ds, nil
}

// Parse reads a comma-separated survey table. Columns are addressed by header
// name, so extra columns and any column order are accepted. Blank metric cells
// become NaN; negative or non-finite values are rejected.
func Parse(r io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{}, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))
	}

	idx, err := columnIndex(header)
	if err != nil {
		return domain.Dataset{}, err
	}

	var records []domain.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRow(row) {
			continue
		}

		rec, err := parseRow(row, idx, line)
		if err != nil {
			return domain.Dataset{}, err
		}
		records = append(records, rec)
	}

	return domain.NewDataset(records), nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int, line int) (domain.Record, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	country := cell(ColCountry)
	if country == "" {
		return domain.Record{}, &ParseError{Line: line, Column: ColCountry, Err: errors.New("empty country")}
	}

	yearStr := cell(ColYear)
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		// Exports from spreadsheets sometimes write years as "2010.0".
		f, ferr := strconv.ParseFloat(yearStr, 64)
		if ferr != nil || f != math.Trunc(f) {
			return domain.Record{}, &ParseError{Line: line, Column: ColYear, Value: yearStr, Err: err}
		}
		year = int(f)
	}

	rec := domain.Record{Country: country, Year: year}
	for _, m := range []struct {
		col string
		dst *float64
	}{
		{ColWaterPollution, &rec.WaterPollution},
		{ColSoilContamination, &rec.SoilContamination},
		{ColDeforestation, &rec.Deforestation},
	} {
		v, err := parseTonnes(cell(m.col))
		if err != nil {
			return domain.Record{}, &ParseError{Line: line, Column: m.col, Value: cell(m.col), Err: err}
		}
		*m.dst = v
	}
	return rec, nil
}

var errNegative = errors.New("must not be negative")

// parseTonnes parses a metric cell. Thousands separators are tolerated.
func parseTonnes(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be finite")
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
