package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a calc run.
type Config struct {
	// X is the value of x for evaluation.
	X float64 `yaml:"x"`
	// Min and Max bound the plotted interval.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	// Samples is the number of points to plot.
	Samples int `yaml:"samples"`
	// Workers is the number of goroutines used to sample.
	Workers int `yaml:"workers"`
	// Digits is the number of decimal places in printed results.
	Digits int `yaml:"digits"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		X:       0,
		Min:     -10,
		Max:     10,
		Samples: 10000,
		Workers: runtime.NumCPU(),
		Digits:  7,
	}
}

// LoadConfig reads a YAML config file over base. Keys missing from the file
// keep their values from base; unknown keys are an error.
func LoadConfig(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()
	c, err := decodeConfig(f, base)
	if err != nil {
		return base, fmt.Errorf("reading config %s: %w", path, err)
	}
	return c, nil
}

func decodeConfig(r io.Reader, base Config) (Config, error) {
	c := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return base, err
	}
	return c, nil
}

// set copies the setting named by a command-line flag from another config.
func (c *Config) set(name string, from Config) {
	switch name {
	case "x":
		c.X = from.X
	case "min":
		c.Min = from.Min
	case "max":
		c.Max = from.Max
	case "n":
		c.Samples = from.Samples
	case "workers":
		c.Workers = from.Workers
	case "digits":
		c.Digits = from.Digits
	}
}

// Validate checks that the config describes a run that can be done.
func (c Config) Validate() error {
	switch {
	case !(c.Min < c.Max):
		return fmt.Errorf("plot interval [%g, %g] is empty", c.Min, c.Max)
	case c.Samples < 2:
		return fmt.Errorf("need at least 2 samples, not %d", c.Samples)
	case c.Workers < 1:
		return fmt.Errorf("need at least 1 worker, not %d", c.Workers)
	case c.Digits < 0 || c.Digits > 17:
		return fmt.Errorf("digits (%d) must be between 0 and 17", c.Digits)
	}
	return nil
}
