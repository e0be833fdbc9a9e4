package monte

import (
	"math/rand"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Noofbiz/metsim/grid"
)

// Config holds the tunables of a resampling run.
type Config struct {
	// DayWindow is the day-of-year radius of a neighborhood.
	DayWindow int `json:"day_window"`

	// HourWindow is the hour-of-day radius of a neighborhood.
	HourWindow int `json:"hour_window"`

	// Seed seeds the random source. Zero means a time-based seed.
	Seed int64 `json:"seed"`

	// Workers is the sampler worker count. Zero means runtime.NumCPU.
	Workers int `json:"workers"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DayWindow:  2,
		HourWindow: 1,
	}
}

// LoadConfig reads a JSON configuration file. Keys that are absent keep
// their DefaultConfig values. Both a flat object and one nested under a
// "sampler" key are accepted:
//
//	{"day_window": 7, "hour_window": 2, "seed": 42, "workers": 4}
//	{"sampler": {"day_window": 7}}
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read sampler config")
	}

	type tunables struct {
		DayWindow  *int   `json:"day_window"`
		HourWindow *int   `json:"hour_window"`
		Seed       *int64 `json:"seed"`
		Workers    *int   `json:"workers"`
	}
	var flat tunables
	if err := json.Unmarshal(data, &flat); err != nil {
		return cfg, errors.Wrapf(err, "unmarshal sampler config %s", path)
	}
	var nested struct {
		Sampler *tunables `json:"sampler"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return cfg, errors.Wrapf(err, "unmarshal sampler config %s", path)
	}

	for _, t := range []*tunables{&flat, nested.Sampler} {
		if t == nil {
			continue
		}
		if t.DayWindow != nil {
			cfg.DayWindow = *t.DayWindow
		}
		if t.HourWindow != nil {
			cfg.HourWindow = *t.HourWindow
		}
		if t.Seed != nil {
			cfg.Seed = *t.Seed
		}
		if t.Workers != nil {
			cfg.Workers = *t.Workers
		}
	}
	return cfg, nil
}

// Window returns the neighborhood window described by c.
func (c Config) Window() grid.Window {
	return grid.Window{Days: c.DayWindow, Hours: c.HourWindow}
}

// NewSampler creates a Sampler seeded and sized from c.
func (c Config) NewSampler() (*Sampler, error) {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := NewSampler(c.Window(), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	s.SetWorkers(c.Workers)
	return s, nil
}
