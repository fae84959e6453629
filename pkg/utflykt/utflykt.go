// Package utflykt organizes a pile of photos and videos into dated or
// place-named event albums, splitting on natural time and distance breaks.
package utflykt

import (
	"fmt"
	"runtime"
	"time"

	"github.com/tstromberg/utflykt/pkg/deposit"
)

// Config holds configuration for an organize run.
type Config struct {
	InDirs []string
	OutDir string

	// PlacesPath points at a GeoNames-format dataset; empty disables
	// location naming entirely.
	PlacesPath string
	Precision  int

	// Album break thresholds. Zero disables a trigger; at least one must
	// be positive.
	TimeThresholdHours  float64
	DistanceThresholdKM float64

	DateFormat       string
	AppendDateFormat string
	PrefixFormat     string
	DateRange        bool
	Parts            bool
	AvoidExisting    bool

	Simulate bool
	Hash     deposit.Algorithm
	Transfer deposit.Mode
	Workers  int
}

// Validate rejects configurations the pipeline cannot run with. These are
// fatal at startup: nothing downstream retries them.
func (c *Config) Validate() error {
	if len(c.InDirs) == 0 {
		return fmt.Errorf("no input directories")
	}
	if c.OutDir == "" {
		return fmt.Errorf("no output directory")
	}
	if c.TimeThresholdHours < 0 || c.DistanceThresholdKM < 0 {
		return fmt.Errorf("thresholds must not be negative")
	}
	if c.TimeThresholdHours == 0 && c.DistanceThresholdKM == 0 {
		return fmt.Errorf("at least one of the time and distance thresholds must be positive")
	}
	if c.PlacesPath != "" && (c.Precision < 1 || c.Precision > 3) {
		return fmt.Errorf("precision %d out of range (1-3)", c.Precision)
	}
	if !validLayout(c.DateFormat) {
		return fmt.Errorf("date format %q contains no date tokens", c.DateFormat)
	}
	if c.AppendDateFormat != "" && !validLayout(c.AppendDateFormat) {
		return fmt.Errorf("append date format %q contains no date tokens", c.AppendDateFormat)
	}
	if c.PrefixFormat != "" && !validLayout(c.PrefixFormat) {
		return fmt.Errorf("prefix format %q contains no date tokens", c.PrefixFormat)
	}
	if _, err := deposit.ParseAlgorithm(string(c.Hash)); err != nil {
		return err
	}
	if _, err := deposit.ParseMode(string(c.Transfer)); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// validLayout reports whether a Go time layout actually formats dates:
// a layout that renders two distant instants identically is literal text.
func validLayout(layout string) bool {
	a := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	b := time.Date(2022, 11, 28, 19, 40, 51, 0, time.UTC)
	return a.Format(layout) != b.Format(layout)
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
