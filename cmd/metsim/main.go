// Command metsim resamples an hourly weather record: every observation is
// replaced by a random observation from the same window of days and hours
// around it, wrapping around the year and the day.
//
// Usage:
//
//	metsim --input 'data/station/*.csv' --day-window 7 --hour-window 1 --seed 42 \
//	    --out-csv output/resampled.csv --plot-dir plots
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/Noofbiz/metsim/datasets"
	"github.com/Noofbiz/metsim/monte"
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Resample observations within circular day-of-year and hour-of-day windows.")
	f := newFlags(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := newLogger(f.LogLevel)
	defer func() { _ = logger.Sync() }()

	cfg, err := f.samplerConfig()
	if err != nil {
		logger.Fatal("failed to load sampler config", zap.String("path", f.ConfigPath), zap.Error(err))
	}

	pattern := datasets.CSVPattern(f.Input)
	ds, err := datasets.NewObservationDataset(pattern, f.csvOptions())
	if err != nil {
		logger.Fatal("failed to load observations", zap.String("pattern", pattern), zap.Error(err))
	}
	logger.Info("loaded observations",
		zap.String("pattern", pattern),
		zap.Int("observations", ds.Len()),
		zap.Strings("columns", ds.Columns()),
	)

	reg := prometheus.NewRegistry()
	sampler, err := cfg.NewSampler()
	if err != nil {
		logger.Fatal("failed to create sampler", zap.Error(err))
	}
	sampler.SetLogger(logger.Named("sampler"))
	sampler.SetMetrics(monte.NewMetrics(reg))

	res, err := sampler.Sample(ds.DayOfYear(), ds.HourOfDay())
	if err != nil {
		logger.Fatal("failed to sample neighbors", zap.Error(err))
	}
	sum := res.Summary()
	logger.Info("sampled neighbors",
		zap.Int("day_window", cfg.DayWindow),
		zap.Int("hour_window", cfg.HourWindow),
		zap.Int("workers", sampler.Workers),
		zap.Int("missing", sum.Missing),
		zap.Float64("candidates_min", sum.Min),
		zap.Float64("candidates_mean", sum.Mean),
		zap.Float64("candidates_std", sum.StdDev),
		zap.Float64("candidates_max", sum.Max),
	)

	batch, err := ds.Resample(res.Indices)
	if err != nil {
		logger.Fatal("failed to apply resampling", zap.Error(err))
	}

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if err := writeOutput(f.OutCSV, batch); err != nil {
			return err
		}
		logger.Info("wrote resampled table", zap.String("path", f.OutCSV))
		return nil
	})
	if f.PlotDir != "" {
		g.Go(func() error {
			if err := plotDiagnostics(f.PlotDir, ds, res); err != nil {
				return err
			}
			logger.Info("wrote plots", zap.String("dir", f.PlotDir))
			return nil
		})
	}
	if f.MetricsTextfile != "" {
		g.Go(func() error {
			if err := ensureDir(filepath.Dir(f.MetricsTextfile)); err != nil {
				return err
			}
			return prometheus.WriteToTextfile(f.MetricsTextfile, reg)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("failed to write outputs", zap.Error(err))
	}
}

// writeOutput writes the batch to path, or to stdout when path is "-".
func writeOutput(path string, batch *datasets.ResampledBatch) error {
	if path == "-" {
		return batch.WriteCSV(os.Stdout)
	}
	return writeFileAtomic(path, batch.WriteCSV)
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
