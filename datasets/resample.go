package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ResampledBatch is an observation table rebuilt from resampling indices.
// Row i keeps the calendar position of observation i and carries the values
// of observation Source[i]-1.
type ResampledBatch struct {
	Columns   []string
	DayOfYear []int
	HourOfDay []int

	// Source holds the 1-based index the row was copied from, or 0 when the
	// row had no candidate.
	Source []int

	// Values is row-major, one row per observation. Rows without a source
	// are filled with NaN.
	Values [][]float32
}

// Resample builds the table described by a slice of 1-based indices aligned
// with the dataset, such as the output of a neighborhood sampler. Indices
// outside [1, Len()] are treated as missing.
func (d *ObservationDataset) Resample(indices []int) (*ResampledBatch, error) {
	if len(indices) != d.Len() {
		return nil, fmt.Errorf("resample indices length %d does not match dataset length %d", len(indices), d.Len())
	}

	b := &ResampledBatch{
		Columns:   d.columns,
		DayOfYear: d.doy,
		HourOfDay: d.hod,
		Source:    make([]int, len(indices)),
		Values:    make([][]float32, len(indices)),
	}
	nan := float32(math.NaN())
	for i, src := range indices {
		row := make([]float32, len(d.columns))
		if src < 1 || src > d.Len() {
			for j := range row {
				row[j] = nan
			}
		} else {
			copy(row, d.values[src-1])
			b.Source[i] = src
		}
		b.Values[i] = row
	}
	return b, nil
}

// Len returns the number of rows.
func (b *ResampledBatch) Len() int {
	return len(b.Values)
}

// WriteCSV writes the batch with a header of
// index,source,day_of_year,hour_of_day followed by the value columns.
func (b *ResampledBatch) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"index", "source", "day_of_year", "hour_of_day"}, b.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for i, row := range b.Values {
		record[0] = strconv.Itoa(i + 1)
		record[1] = strconv.Itoa(b.Source[i])
		record[2] = strconv.Itoa(b.DayOfYear[i])
		record[3] = strconv.Itoa(b.HourOfDay[i])
		for j, v := range row {
			record[4+j] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToGomlxTensor converts the values into a [rows, columns] gomlx tensor.
func (b *ResampledBatch) ToGomlxTensor() (*tensors.Tensor, error) {
	if len(b.Values) == 0 || len(b.Columns) == 0 {
		return tensors.FromAnyValue(make([][]float32, 0)), nil
	}
	for i, row := range b.Values {
		if len(row) != len(b.Columns) {
			return nil, fmt.Errorf("inconsistent row width at %d: expected %d, got %d", i, len(b.Columns), len(row))
		}
	}
	return tensors.FromAnyValue(b.Values), nil
}
