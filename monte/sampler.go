package monte

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Noofbiz/metsim/grid"
)

// Sampler resamples observation series within a day/hour window.
type Sampler struct {
	Window grid.Window

	// Workers is the number of goroutines used by Sample. Values <= 1 run the
	// sequential path, which draws from the shared source in observation order.
	// Parallel runs need a StreamSource; other sources fall back to sequential.
	Workers int

	// Logger receives debug output about each run. Nil disables logging.
	Logger *zap.Logger

	// Metrics is optional instrumentation. Nil disables it.
	Metrics *Metrics

	// rng is the parent source for all draws.
	rng Source
}

// Result holds the outcome of one Sample call. Both slices are aligned with
// the input observations.
type Result struct {
	// Indices holds the selected 1-based observation index, or NoCandidate.
	Indices []int

	// CandidateCounts holds the size of each observation's candidate list.
	CandidateCounts []int
}

// NewSampler creates a Sampler for window w drawing from src.
// A nil src is replaced by a time-seeded *rand.Rand. A window that fails
// grid.Window.Validate is rejected.
func NewSampler(w grid.Window, src Source) (*Sampler, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		Window: w,
		rng:    src,
	}, nil
}

// SetWorkers sets the number of workers used by Sample. Zero means runtime.NumCPU.
func (s *Sampler) SetWorkers(n int) {
	if s == nil {
		return
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	s.Workers = n
}

func (s *Sampler) SetLogger(l *zap.Logger) {
	if s == nil {
		return
	}
	s.Logger = l
}

func (s *Sampler) SetMetrics(m *Metrics) {
	if s == nil {
		return
	}
	s.Metrics = m
}

// Sample selects one neighbor for every observation described by the paired
// dayOfYear and hourOfDay slices.
//
// Invalid input is rejected before any randomness is consumed, with an error
// wrapping grid.ErrInvalidArgument. An empty neighborhood is not an error; it
// yields NoCandidate at that position.
func (s *Sampler) Sample(dayOfYear, hourOfDay []int) (*Result, error) {
	if s == nil {
		return nil, errors.New("Sampler is nil")
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	start := time.Now()
	logger := s.logger()

	idx, err := NewIndex(dayOfYear, hourOfDay, s.Window)
	if err != nil {
		return nil, err
	}
	n := idx.Len()
	logger.Debug("built bucket grid",
		zap.Int("observations", n),
		zap.Int("window_days", s.Window.Days),
		zap.Int("window_hours", s.Window.Hours),
	)

	res := &Result{
		Indices:         make([]int, n),
		CandidateCounts: make([]int, n),
	}

	workers := s.Workers
	stream, canStream := s.rng.(StreamSource)
	if workers > n {
		workers = n
	}
	if workers > 1 && canStream {
		s.sampleParallel(idx, stream, workers, res)
	} else {
		workers = 1
		s.sampleSequential(idx, res)
	}

	s.Metrics.observe(res, time.Since(start))
	logger.Debug("sampled neighbors",
		zap.Int("observations", n),
		zap.Int("workers", workers),
		zap.Int("missing", res.Missing()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *Sampler) sampleSequential(idx *Index, res *Result) {
	var scratch []int
	for i := 0; i < idx.Len(); i++ {
		res.Indices[i], res.CandidateCounts[i] = idx.draw(i, s.rng, &scratch)
	}
}

// sampleParallel gives every observation its own generator, seeded serially
// from the parent stream, so the output does not depend on the worker count.
func (s *Sampler) sampleParallel(idx *Index, parent StreamSource, workers int, res *Result) {
	n := idx.Len()
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = parent.Int63()
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			var scratch []int
			for i := range jobs {
				rng := rand.New(rand.NewSource(seeds[i]))
				res.Indices[i], res.CandidateCounts[i] = idx.draw(i, rng, &scratch)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func (s *Sampler) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Missing returns how many observations received NoCandidate.
func (r *Result) Missing() int {
	missing := 0
	for _, v := range r.Indices {
		if v == NoCandidate {
			missing++
		}
	}
	return missing
}

// GetConstrainedIndices returns, for every observation, the 1-based index of
// an observation drawn uniformly from those within dayWindow days and
// hourWindow hours of it, or NoCandidate when there are none. Draws are taken
// from src in observation order, one per non-empty candidate list.
func GetConstrainedIndices(dayOfYear, hourOfDay []int, dayWindow, hourWindow int, src Source) ([]int, error) {
	if src == nil {
		return nil, errors.Wrap(grid.ErrInvalidArgument, "random source cannot be nil")
	}
	s, err := NewSampler(grid.Window{Days: dayWindow, Hours: hourWindow}, src)
	if err != nil {
		return nil, err
	}
	res, err := s.Sample(dayOfYear, hourOfDay)
	if err != nil {
		return nil, err
	}
	return res.Indices, nil
}
