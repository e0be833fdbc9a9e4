package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Noofbiz/metsim/grid"
)

// CSVOptions controls how observation CSV files are read.
type CSVOptions struct {
	// TimeColumn holds the observation timestamp. Day-of-year and hour-of-day
	// are derived from it unless DayColumn and HourColumn are both set.
	TimeColumn string

	// TimeLayout is the time.Parse layout of TimeColumn.
	TimeLayout string

	// DayColumn and HourColumn hold day-of-year (1..366) and hour-of-day
	// (0..23) directly.
	DayColumn  string
	HourColumn string

	// ValueColumns lists the columns carried through resampling. Empty means
	// every column other than the time, day and hour columns.
	ValueColumns []string

	// Delimiter is the field separator.
	Delimiter rune
}

// DefaultCSVOptions returns options for comma separated files with an RFC 3339
// "time" column.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn: "time",
		TimeLayout: time.RFC3339,
		Delimiter:  ',',
	}
}

// directCalendar reports whether day and hour are read from their own columns.
func (o *CSVOptions) directCalendar() bool {
	return o.DayColumn != "" && o.HourColumn != ""
}

// ObservationDataset is an in-memory table of observations, each with a
// day-of-year, an hour-of-day and a row of float32 values.
type ObservationDataset struct {
	// Pattern used to find CSV files, empty when loaded from a reader.
	Pattern string

	csvPaths []string
	columns  []string

	doy    []int
	hod    []int
	times  []time.Time
	values [][]float32
}

// NewObservationDataset loads every CSV file matching pattern, in lexical
// order, into a single dataset. All files must share the first file's value
// columns.
func NewObservationDataset(pattern string, opts *CSVOptions) (*ObservationDataset, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	csvPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern: %s", pattern)
	}

	ds := &ObservationDataset{
		Pattern:  pattern,
		csvPaths: csvPaths,
	}
	for _, path := range csvPaths {
		if err := ds.loadFile(path, opts); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// LoadObservationsFromReader loads a dataset from a single CSV stream.
func LoadObservationsFromReader(r io.Reader, opts *CSVOptions) (*ObservationDataset, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	ds := &ObservationDataset{}
	if err := ds.load(r, opts, "reader"); err != nil {
		return nil, err
	}
	return ds, nil
}

func (d *ObservationDataset) loadFile(path string, opts *CSVOptions) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer file.Close()
	return d.load(file, opts, path)
}

// load appends the rows of one CSV stream. name is used in error messages.
func (d *ObservationDataset) load(r io.Reader, opts *CSVOptions, name string) error {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", name, err)
	}
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[normalizeColumn(col)] = i
	}

	lookup := func(col string) (int, error) {
		i, ok := colIndex[normalizeColumn(col)]
		if !ok {
			return 0, fmt.Errorf("%s: required column %q not found in CSV", name, col)
		}
		return i, nil
	}

	var timeIdx, dayIdx, hourIdx int = -1, -1, -1
	if opts.directCalendar() {
		if dayIdx, err = lookup(opts.DayColumn); err != nil {
			return err
		}
		if hourIdx, err = lookup(opts.HourColumn); err != nil {
			return err
		}
	} else {
		if opts.TimeColumn == "" {
			return fmt.Errorf("%s: either a time column or both day and hour columns are required", name)
		}
		if timeIdx, err = lookup(opts.TimeColumn); err != nil {
			return err
		}
	}
	if opts.TimeColumn != "" && timeIdx < 0 {
		// The time column is optional when day and hour are given directly.
		if i, ok := colIndex[normalizeColumn(opts.TimeColumn)]; ok {
			timeIdx = i
		}
	}

	valueNames := opts.ValueColumns
	if len(valueNames) == 0 {
		for i, col := range header {
			if i == timeIdx || i == dayIdx || i == hourIdx {
				continue
			}
			valueNames = append(valueNames, strings.TrimSpace(col))
		}
	}
	valueIdx := make([]int, len(valueNames))
	for i, col := range valueNames {
		if valueIdx[i], err = lookup(col); err != nil {
			return err
		}
	}

	if d.columns == nil {
		d.columns = valueNames
	} else if !sameColumns(d.columns, valueNames) {
		return fmt.Errorf("%s: value columns %v do not match %v", name, valueNames, d.columns)
	}

	layout := opts.TimeLayout
	if layout == "" {
		layout = time.RFC3339
	}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: failed to read row %d: %w", name, row, err)
		}

		var ts time.Time
		if timeIdx >= 0 {
			ts, err = time.Parse(layout, strings.TrimSpace(record[timeIdx]))
			if err != nil && !opts.directCalendar() {
				return fmt.Errorf("%s: row %d: failed to parse %s: %w", name, row, opts.TimeColumn, err)
			}
		}

		var day, hour int
		if opts.directCalendar() {
			if day, err = parseInt(record[dayIdx]); err != nil {
				return fmt.Errorf("%s: row %d: failed to parse %s: %w", name, row, opts.DayColumn, err)
			}
			if hour, err = parseInt(record[hourIdx]); err != nil {
				return fmt.Errorf("%s: row %d: failed to parse %s: %w", name, row, opts.HourColumn, err)
			}
		} else {
			day, hour = ts.YearDay(), ts.Hour()
		}
		if day < 1 || day > grid.MaxDay {
			return fmt.Errorf("%s: row %d: day of year %d out of range [1, %d]", name, row, day, grid.MaxDay)
		}
		if hour < 0 || hour >= grid.HoursPerDay {
			return fmt.Errorf("%s: row %d: hour of day %d out of range [0, %d]", name, row, hour, grid.HoursPerDay-1)
		}

		vals := make([]float32, len(valueIdx))
		for i, ci := range valueIdx {
			v, err := parseValue(record[ci])
			if err != nil {
				return fmt.Errorf("%s: row %d: failed to parse %s: %w", name, row, valueNames[i], err)
			}
			vals[i] = v
		}

		d.doy = append(d.doy, day)
		d.hod = append(d.hod, hour)
		d.times = append(d.times, ts)
		d.values = append(d.values, vals)
	}
	return nil
}

// Len returns the number of observations.
func (d *ObservationDataset) Len() int {
	return len(d.values)
}

// Columns returns the names of the value columns.
func (d *ObservationDataset) Columns() []string {
	return d.columns
}

// DayOfYear returns the day-of-year of every observation.
func (d *ObservationDataset) DayOfYear() []int {
	return d.doy
}

// HourOfDay returns the hour-of-day of every observation.
func (d *ObservationDataset) HourOfDay() []int {
	return d.hod
}

// Times returns the parsed timestamps. Entries are zero when the dataset was
// read from day and hour columns without a parseable time column.
func (d *ObservationDataset) Times() []time.Time {
	return d.times
}

// Example returns a copy of the values of observation idx (0-based).
func (d *ObservationDataset) Example(idx int) ([]float32, error) {
	if idx < 0 || idx >= len(d.values) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", idx, len(d.values))
	}
	out := make([]float32, len(d.values[idx]))
	copy(out, d.values[idx])
	return out, nil
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if normalizeColumn(a[i]) != normalizeColumn(b[i]) {
			return false
		}
	}
	return true
}
