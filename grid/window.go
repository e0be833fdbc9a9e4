package grid

import (
	"github.com/pkg/errors"
)

// MaxRadius is the largest radius accepted on either axis. It covers more than
// eleven years of days and keeps a neighborhood below 2^27 cells.
const MaxRadius = 4096

// Window is a pair of inclusive radii on the day and hour axes.
// A negative radius makes the offset range empty.
type Window struct {
	Days  int
	Hours int
}

// Validate fails with an error wrapping ErrInvalidArgument when a radius
// exceeds MaxRadius. Negative radii are valid and select nothing.
func (w Window) Validate() error {
	if w.Days > MaxRadius {
		return errors.Wrapf(ErrInvalidArgument, "day window %d exceeds %d", w.Days, MaxRadius)
	}
	if w.Hours > MaxRadius {
		return errors.Wrapf(ErrInvalidArgument, "hour window %d exceeds %d", w.Hours, MaxRadius)
	}
	return nil
}

// Cells returns how many cells a neighborhood of this window visits, or 0 for
// a window that selects nothing or fails Validate.
func (w Window) Cells() int {
	if w.Days < 0 || w.Hours < 0 || w.Validate() != nil {
		return 0
	}
	return (2*w.Days + 1) * (2*w.Hours + 1)
}

// WrapDay maps any integer onto the circular day axis [1, MaxDay].
func WrapDay(d int) int {
	return floorMod(d-1, MaxDay) + 1
}

// WrapHour maps any integer onto the circular hour axis [0, HoursPerDay).
func WrapHour(h int) int {
	return floorMod(h, HoursPerDay)
}

func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
