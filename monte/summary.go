package monte

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of candidate-list sizes of a Result.
type Summary struct {
	Observations int
	Missing      int
	Min          float64
	Max          float64
	Mean         float64
	StdDev       float64
}

// Summary computes candidate-list statistics for r.
func (r *Result) Summary() Summary {
	s := Summary{
		Observations: len(r.Indices),
		Missing:      r.Missing(),
	}
	if len(r.CandidateCounts) == 0 {
		return s
	}
	counts := make([]float64, len(r.CandidateCounts))
	for i, c := range r.CandidateCounts {
		counts[i] = float64(c)
	}
	s.Min = floats.Min(counts)
	s.Max = floats.Max(counts)
	if len(counts) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(counts, nil)
	} else {
		s.Mean = counts[0]
	}
	return s
}
