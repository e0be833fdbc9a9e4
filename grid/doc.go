// Package grid indexes observations by their exact (day-of-year, hour-of-day)
// pair on a dense 367x24 table of buckets.
//
// Both axes are circular: day 366 is adjacent to day 1 and hour 23 is adjacent
// to hour 0. Coordinates handed to Cell and Gather are normalized with WrapDay
// and WrapHour, so no window radius can reach outside the table.
//
// A Grid is built once with Build and is read-only afterwards, which makes it
// safe to query from many goroutines at once.
package grid
