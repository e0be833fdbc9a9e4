// Package monte draws stochastic resamples of an observation series.
//
// For every observation it gathers the observations that fall within a
// day-of-year and hour-of-day window of it (wrapping around the year and the
// day), and picks one of them uniformly at random. The result is a slice of
// 1-based indices aligned with the input, suitable for rebuilding a synthetic
// weather series from the original records.
//
// Randomness is injected through Source so runs can be made reproducible with
// a seeded *rand.Rand.
package monte
