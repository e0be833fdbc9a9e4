package monte

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/metsim/grid"
)

// countingSource returns a fixed value and counts how often it was asked.
// It deliberately does not implement StreamSource.
type countingSource struct {
	value float64
	calls int
}

func (c *countingSource) Float64() float64 {
	c.calls++
	return c.value
}

// randomObservations returns n observations spread over a narrow band of
// days and hours so that neighborhoods overlap.
func randomObservations(r *rand.Rand, n int) (doy, hod []int) {
	doy = make([]int, n)
	hod = make([]int, n)
	for i := range doy {
		doy[i] = grid.WrapDay(364 + r.Intn(6)) // 364..366, 1..3
		hod[i] = grid.WrapHour(22 + r.Intn(4)) // 22, 23, 0, 1
	}
	return doy, hod
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func TestGetConstrainedIndicesExample(t *testing.T) {
	doy := []int{1, 1, 2}
	hod := []int{5, 5, 5}
	for seed := int64(0); seed < 50; seed++ {
		got, err := GetConstrainedIndices(doy, hod, 0, 0, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Contains(t, []int{1, 2}, got[0])
		assert.Contains(t, []int{1, 2}, got[1])
		assert.Equal(t, 3, got[2])
	}
}

func TestGetConstrainedIndicesNilSource(t *testing.T) {
	_, err := GetConstrainedIndices([]int{1}, []int{0}, 0, 0, nil)
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument))
}

func TestOversizedWindowRejected(t *testing.T) {
	src := &countingSource{}
	_, err := GetConstrainedIndices([]int{1, 2}, []int{0, 0}, math.MaxInt, -1, src)
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument), "got %v", err)

	_, err = NewSampler(grid.Window{Days: 0, Hours: grid.MaxRadius + 1}, src)
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument), "got %v", err)

	s, err := NewSampler(grid.Window{}, src)
	require.NoError(t, err)
	s.Window = grid.Window{Days: math.MaxInt}
	res, err := s.Sample([]int{1}, []int{0})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, grid.ErrInvalidArgument), "got %v", err)
	assert.Equal(t, 0, src.calls)
}

func TestSampleInvalidInputConsumesNothing(t *testing.T) {
	src := &countingSource{}
	s, err := NewSampler(grid.Window{Days: 1, Hours: 1}, src)
	require.NoError(t, err)

	for _, in := range []struct{ doy, hod []int }{
		{[]int{1, 2}, []int{0}},
		{[]int{0}, []int{0}},
		{[]int{1}, []int{24}},
	} {
		res, err := s.Sample(in.doy, in.hod)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, grid.ErrInvalidArgument), "got %v", err)
	}
	assert.Zero(t, src.calls)
}

func TestSampleSelfInclusionAndAlignment(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	doy, hod := randomObservations(r, 200)
	w := grid.Window{Days: 1, Hours: 1}

	idx, err := NewIndex(doy, hod, w)
	require.NoError(t, err)
	s, err := NewSampler(w, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	res, err := s.Sample(doy, hod)
	require.NoError(t, err)

	require.Len(t, res.Indices, len(doy))
	require.Len(t, res.CandidateCounts, len(doy))
	assert.Zero(t, res.Missing())
	for i := range doy {
		cands := idx.Candidates(i, nil)
		assert.True(t, contains(cands, i+1), "observation %d missing from its own candidates", i)
		assert.True(t, contains(cands, res.Indices[i]), "result %d not a candidate", i)
		assert.Equal(t, len(cands), res.CandidateCounts[i])
	}
}

func TestSampleZeroWindowExactMatch(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	doy, hod := randomObservations(r, 100)
	w := grid.Window{}

	idx, err := NewIndex(doy, hod, w)
	require.NoError(t, err)
	got, err := GetConstrainedIndices(doy, hod, 0, 0, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for i := range doy {
		var bucket []int
		for j := range doy {
			if doy[j] == doy[i] && hod[j] == hod[i] {
				bucket = append(bucket, j+1)
			}
		}
		assert.Equal(t, bucket, idx.Candidates(i, nil))
		sel := got[i] - 1
		assert.Equal(t, doy[i], doy[sel])
		assert.Equal(t, hod[i], hod[sel])
	}
}

func TestSampleWraparound(t *testing.T) {
	// Observation 0 sits on day 366 hour 0; the others probe the neighborhood edges.
	doy := []int{366, 364, 365, 1, 2, 3, 363, 366, 366, 366}
	hod := []int{0, 0, 0, 0, 0, 0, 0, 23, 1, 2}
	idx, err := NewIndex(doy, hod, grid.Window{Days: 2, Hours: 1})
	require.NoError(t, err)

	got := idx.Candidates(0, nil)
	for _, want := range []int{1, 2, 3, 4, 5, 8, 9} {
		assert.True(t, contains(got, want), "expected %d in %v", want, got)
	}
	for _, notWant := range []int{6, 7, 10} {
		assert.False(t, contains(got, notWant), "did not expect %d in %v", notWant, got)
	}
}

func TestSampleLargeWindow(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	doy, hod := randomObservations(r, 20)
	got, err := GetConstrainedIndices(doy, hod, 400, 30, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, got, len(doy))
	for i, v := range got {
		assert.True(t, v >= 1 && v <= len(doy), "result %d out of range: %d", i, v)
	}
}

func TestSampleNegativeWindow(t *testing.T) {
	src := &countingSource{}
	got, err := GetConstrainedIndices([]int{1, 1, 200}, []int{0, 0, 12}, -1, 0, src)
	require.NoError(t, err)
	assert.Equal(t, []int{NoCandidate, NoCandidate, NoCandidate}, got)
	assert.Zero(t, src.calls)
}

func TestSampleEmptyInput(t *testing.T) {
	got, err := GetConstrainedIndices([]int{}, []int{}, 2, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSampleOneDrawPerObservation(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	doy, hod := randomObservations(r, 64)
	src := &countingSource{value: 0.5}
	s, err := NewSampler(grid.Window{Days: 1, Hours: 0}, src)
	require.NoError(t, err)
	// A plain Source cannot seed streams, so Workers is ignored.
	s.SetWorkers(8)

	_, err = s.Sample(doy, hod)
	require.NoError(t, err)
	assert.Equal(t, len(doy), src.calls)
}

func TestDrawFloorsUniformReal(t *testing.T) {
	idx, err := NewIndex([]int{10, 10, 10, 10}, []int{3, 3, 3, 3}, grid.Window{})
	require.NoError(t, err)

	tests := []struct {
		value float64
		want  int
	}{
		{0, 1},
		{0.2499, 1},
		{0.25, 2},
		{0.74, 3},
		{0.9999, 4},
		{1.0, 4}, // clamped
	}
	for _, tt := range tests {
		got, size := idx.Draw(0, &countingSource{value: tt.value})
		assert.Equal(t, tt.want, got, "value %v", tt.value)
		assert.Equal(t, 4, size)
	}
}

func TestWindowMonotonicity(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	doy, hod := randomObservations(r, 80)

	grows := func(days, hours, extraDays, extraHours uint8) bool {
		small := grid.Window{Days: int(days % 5), Hours: int(hours % 5)}
		large := grid.Window{Days: small.Days + int(extraDays%4), Hours: small.Hours + int(extraHours%4)}
		a, err := NewIndex(doy, hod, small)
		if err != nil {
			return false
		}
		b, err := NewIndex(doy, hod, large)
		if err != nil {
			return false
		}
		for i := range doy {
			sc := a.Candidates(i, nil)
			lc := b.Candidates(i, nil)
			if len(lc) < len(sc) {
				return false
			}
			for _, v := range sc {
				if !contains(lc, v) {
					return false
				}
			}
		}
		return true
	}
	values := func(v []reflect.Value, r *rand.Rand) {
		for i := range v {
			v[i] = reflect.ValueOf(uint8(r.Intn(256)))
		}
	}
	if err := quick.Check(grows, &quick.Config{MaxCount: 40, Values: values}); err != nil {
		t.Error(err)
	}
}

func TestSampleParallelDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	doy, hod := randomObservations(r, 500)
	w := grid.Window{Days: 2, Hours: 1}

	run := func(workers int) *Result {
		s, err := NewSampler(w, rand.New(rand.NewSource(99)))
		require.NoError(t, err)
		s.SetWorkers(workers)
		res, err := s.Sample(doy, hod)
		require.NoError(t, err)
		return res
	}

	two := run(2)
	eight := run(8)
	assert.Equal(t, two.Indices, eight.Indices)
	assert.Equal(t, two.CandidateCounts, eight.CandidateCounts)

	idx, err := NewIndex(doy, hod, w)
	require.NoError(t, err)
	for i, v := range eight.Indices {
		assert.True(t, contains(idx.Candidates(i, nil), v), "result %d not a candidate", i)
	}
}

func TestSampleSequentialReproducible(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	doy, hod := randomObservations(r, 100)
	a, err := GetConstrainedIndices(doy, hod, 1, 1, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	b, err := GetConstrainedIndices(doy, hod, 1, 1, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampleMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	// Registering twice must not panic.
	NewMetrics(reg)

	s, err := NewSampler(grid.Window{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	s.SetMetrics(m)
	_, err = s.Sample([]int{1, 1, 2}, []int{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Draws))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EmptyNeighborhoods))

	s.Window = grid.Window{Days: -1}
	_, err = s.Sample([]int{1, 1, 2}, []int{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EmptyNeighborhoods))
}

func TestResultSummary(t *testing.T) {
	res := &Result{
		Indices:         []int{1, NoCandidate, 3, 2},
		CandidateCounts: []int{2, 0, 4, 2},
	}
	s := res.Summary()
	assert.Equal(t, 4, s.Observations)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.632993, s.StdDev, 1e-6)

	assert.Equal(t, Summary{}, (&Result{}).Summary())
}

func TestNilSampler(t *testing.T) {
	var s *Sampler
	s.SetWorkers(2)
	s.SetLogger(nil)
	s.SetMetrics(nil)
	_, err := s.Sample(nil, nil)
	assert.Error(t, err)
}
