package monte

import (
	"math"

	"github.com/Noofbiz/metsim/grid"
)

// NoCandidate marks an observation whose neighborhood held no candidates.
// Valid results are 1-based, so the zero value never collides with one.
const NoCandidate = 0

// Source is a uniform sampler over the reals in [0, 1).
// *rand.Rand from math/rand satisfies it.
type Source interface {
	Float64() float64
}

// StreamSource is a Source that can also seed independent child streams.
// Samplers use it to give every observation its own generator when running
// in parallel.
type StreamSource interface {
	Source
	Int63() int64
}

// Index pairs a bucket grid with the observations it was built from and the
// window used to query it.
type Index struct {
	grid   *grid.Grid
	doy    []int
	hod    []int
	window grid.Window
}

// NewIndex builds the grid for the given observations. The slices are kept by
// reference and must not be modified while the Index is in use.
func NewIndex(dayOfYear, hourOfDay []int, w grid.Window) (*Index, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.Build(dayOfYear, hourOfDay)
	if err != nil {
		return nil, err
	}
	return &Index{
		grid:   g,
		doy:    dayOfYear,
		hod:    hourOfDay,
		window: w,
	}, nil
}

// Len returns the number of indexed observations.
func (x *Index) Len() int {
	return x.grid.Len()
}

// Window returns the neighborhood window.
func (x *Index) Window() grid.Window {
	return x.window
}

// Candidates appends the candidate list of observation i (0-based) to dst.
func (x *Index) Candidates(i int, dst []int) []int {
	return x.grid.Gather(dst, x.doy[i], x.hod[i], x.window)
}

// Draw selects one candidate for observation i using src. It returns the
// selected 1-based index, or NoCandidate, together with the size of the
// candidate list. src is consulted only when the list is non-empty.
func (x *Index) Draw(i int, src Source) (int, int) {
	return x.draw(i, src, nil)
}

// draw is Draw with a reusable scratch buffer.
func (x *Index) draw(i int, src Source, scratch *[]int) (int, int) {
	var buf []int
	if scratch != nil {
		buf = (*scratch)[:0]
	}
	buf = x.Candidates(i, buf)
	if scratch != nil {
		*scratch = buf
	}
	if len(buf) == 0 {
		return NoCandidate, 0
	}
	return buf[pick(src, len(buf))], len(buf)
}

// pick floors a uniform real in [0, k) to an integer position.
func pick(src Source, k int) int {
	r := int(math.Floor(src.Float64() * float64(k)))
	if r >= k {
		// Float64 rounding can land exactly on k for very large lists.
		r = k - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}
