// Package datasets loads weather observations from CSV files and applies
// resampling indices to them.
//
// Every observation carries a day-of-year (1..366) and an hour-of-day (0..23),
// either read from dedicated columns or derived from a timestamp column, plus
// a row of float32 values (temperature, precipitation, radiation, ...). Empty
// cells and NA markers load as NaN.
//
// A resampled table can be written back to CSV or converted into a gomlx
// tensor for downstream model training.
package datasets
