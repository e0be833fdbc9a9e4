package grid

import (
	"github.com/pkg/errors"
)

const (
	// MaxDay is the largest day-of-year. Days run from 1 to MaxDay.
	MaxDay = 366

	// HoursPerDay is the modulus of the hour axis. Hours run from 0 to HoursPerDay-1.
	HoursPerDay = 24
)

// ErrInvalidArgument is wrapped by every validation error returned from this
// package and from the samplers built on top of it.
var ErrInvalidArgument = errors.New("invalid argument")

// Grid holds one bucket per (day, hour) pair. Each bucket is the ordered list
// of 1-based observation indices that fall on that pair, in input order.
//
// Day index 0 is allocated but always empty so days index the table directly.
type Grid struct {
	cells [MaxDay + 1][HoursPerDay][]int
	n     int
}

// Build indexes the observations described by the paired dayOfYear and
// hourOfDay slices. Observation i is stored as i+1 in cell
// [dayOfYear[i]][hourOfDay[i]].
//
// Build fails with an error wrapping ErrInvalidArgument when the slices differ
// in length or a value lies outside [1,366] for days or [0,23] for hours.
func Build(dayOfYear, hourOfDay []int) (*Grid, error) {
	if err := Validate(dayOfYear, hourOfDay); err != nil {
		return nil, err
	}
	g := &Grid{n: len(dayOfYear)}
	for i, d := range dayOfYear {
		h := hourOfDay[i]
		g.cells[d][h] = append(g.cells[d][h], i+1)
	}
	return g, nil
}

// Validate checks the preconditions of Build without building anything.
func Validate(dayOfYear, hourOfDay []int) error {
	if len(dayOfYear) != len(hourOfDay) {
		return errors.Wrapf(ErrInvalidArgument, "day_of_year has %d values but hour_of_day has %d",
			len(dayOfYear), len(hourOfDay))
	}
	for i, d := range dayOfYear {
		if d < 1 || d > MaxDay {
			return errors.Wrapf(ErrInvalidArgument, "day_of_year[%d] = %d, want 1..%d", i, d, MaxDay)
		}
		if h := hourOfDay[i]; h < 0 || h >= HoursPerDay {
			return errors.Wrapf(ErrInvalidArgument, "hour_of_day[%d] = %d, want 0..%d", i, h, HoursPerDay-1)
		}
	}
	return nil
}

// Len returns the number of indexed observations.
func (g *Grid) Len() int {
	return g.n
}

// Cell returns the bucket for the given coordinates after wrapping them onto
// the circular axes. The returned slice is shared with the grid and must not
// be modified.
func (g *Grid) Cell(day, hour int) []int {
	return g.cells[WrapDay(day)][WrapHour(hour)]
}

// Gather appends to dst every index stored in the cells within w of
// (day, hour) and returns the extended slice.
//
// Cells are visited with the day offset in the outer loop and the hour offset
// in the inner loop, both running from -radius to +radius. Within a cell the
// insertion order is kept. When a radius exceeds its axis the same cell is
// visited more than once and its indices appear more than once. A window that
// fails Validate appends nothing.
func (g *Grid) Gather(dst []int, day, hour int, w Window) []int {
	if w.Cells() == 0 {
		return dst
	}
	for dOff := -w.Days; dOff <= w.Days; dOff++ {
		d := WrapDay(day + dOff)
		for hOff := -w.Hours; hOff <= w.Hours; hOff++ {
			if bucket := g.cells[d][WrapHour(hour+hOff)]; len(bucket) > 0 {
				dst = append(dst, bucket...)
			}
		}
	}
	return dst
}
