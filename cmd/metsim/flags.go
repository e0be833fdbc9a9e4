package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/Noofbiz/metsim/datasets"
	"github.com/Noofbiz/metsim/monte"
)

// flags holds every command line option of metsim.
type flags struct {
	Input        string
	TimeColumn   string
	TimeLayout   string
	DayColumn    string
	HourColumn   string
	ValueColumns []string

	ConfigPath string
	DayWindow  int
	HourWindow int
	Seed       int64
	Workers    int

	OutCSV          string
	PlotDir         string
	MetricsTextfile string

	LogLevel zapcore.Level

	// set records which sampler flags were given explicitly, so they can
	// take precedence over the JSON config.
	set map[string]bool
}

func newFlags(app *kingpin.Application) *flags {
	f := &flags{set: make(map[string]bool)}
	def := monte.DefaultConfig()
	csvDef := datasets.DefaultCSVOptions()

	app.Flag("input", "CSV file, directory or glob pattern with observations.").
		Short('i').Required().StringVar(&f.Input)
	app.Flag("time-column", "Timestamp column used to derive day-of-year and hour-of-day.").
		Default(csvDef.TimeColumn).StringVar(&f.TimeColumn)
	app.Flag("time-layout", "Go time layout of the timestamp column.").
		Default(csvDef.TimeLayout).StringVar(&f.TimeLayout)
	app.Flag("day-column", "Column holding day-of-year directly (requires --hour-column).").
		StringVar(&f.DayColumn)
	app.Flag("hour-column", "Column holding hour-of-day directly (requires --day-column).").
		StringVar(&f.HourColumn)
	app.Flag("value-column", "Value column to resample. Repeatable; default is every other column.").
		StringsVar(&f.ValueColumns)

	app.Flag("config", "JSON file with sampler settings (day_window, hour_window, seed, workers).").
		StringVar(&f.ConfigPath)
	app.Flag("day-window", "Day-of-year window radius.").
		Default(itoa(def.DayWindow)).Action(f.mark("day-window")).IntVar(&f.DayWindow)
	app.Flag("hour-window", "Hour-of-day window radius.").
		Default(itoa(def.HourWindow)).Action(f.mark("hour-window")).IntVar(&f.HourWindow)
	app.Flag("seed", "Random seed. 0 seeds from the clock.").
		Default("0").Action(f.mark("seed")).Int64Var(&f.Seed)
	app.Flag("workers", "Sampler workers. 0 uses every CPU, 1 runs sequentially.").
		Default("0").Action(f.mark("workers")).IntVar(&f.Workers)

	app.Flag("out-csv", "Where to write the resampled table. '-' writes to stdout.").
		Default("output/resampled.csv").StringVar(&f.OutCSV)
	app.Flag("plot-dir", "If set, write diagnostic plots to this directory.").
		StringVar(&f.PlotDir)
	app.Flag("metrics-textfile", "If set, write sampler metrics in Prometheus text format to this file.").
		StringVar(&f.MetricsTextfile)

	app.Flag("log.level", "Set logging level.").
		HintOptions(
			zap.DebugLevel.String(),
			zap.InfoLevel.String(),
			zap.WarnLevel.String(),
			zap.ErrorLevel.String(),
		).
		Default(zap.InfoLevel.String()).
		SetValue(&f.LogLevel)

	return f
}

func (f *flags) mark(name string) kingpin.Action {
	return func(*kingpin.ParseContext) error {
		f.set[name] = true
		return nil
	}
}

// samplerConfig merges the JSON config (if any) with explicitly set flags.
func (f *flags) samplerConfig() (monte.Config, error) {
	cfg := monte.DefaultConfig()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = monte.LoadConfig(f.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if f.ConfigPath == "" || f.set["day-window"] {
		cfg.DayWindow = f.DayWindow
	}
	if f.ConfigPath == "" || f.set["hour-window"] {
		cfg.HourWindow = f.HourWindow
	}
	if f.ConfigPath == "" || f.set["seed"] {
		cfg.Seed = f.Seed
	}
	if f.ConfigPath == "" || f.set["workers"] {
		cfg.Workers = f.Workers
	}
	return cfg, nil
}

func (f *flags) csvOptions() *datasets.CSVOptions {
	return &datasets.CSVOptions{
		TimeColumn:   f.TimeColumn,
		TimeLayout:   f.TimeLayout,
		DayColumn:    f.DayColumn,
		HourColumn:   f.HourColumn,
		ValueColumns: f.ValueColumns,
		Delimiter:    ',',
	}
}
