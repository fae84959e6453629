// utflykt organizes photos and videos into dated or place-named event albums.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"slices"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"

	"github.com/tstromberg/utflykt/pkg/deposit"
	"github.com/tstromberg/utflykt/pkg/utflykt"
)

var (
	outDir        = flag.String("out", "", "Location of the album output directory")
	placesDB      = flag.String("places", "", "GeoNames-format place database; enables location naming")
	precision     = flag.Int("precision", 1, "place precision level: 1=cities, 2=towns, 3=landmarks")
	timeGap       = flag.Float64("time", 48, "hours between shots that start a new album (0 disables)")
	distGap       = flag.Float64("dist", 0, "kilometers between shots that start a new album (0 disables)")
	dateFormat    = flag.String("date-format", "2006-01-02", "layout for date-based album names")
	appendDate    = flag.String("append-date", "", "layout appended to place-based album names")
	prefix        = flag.String("prefix", "", "layout expanded into a relative path prefix for album names")
	dateRange     = flag.Bool("date-range", false, "name multi-day albums with a date range")
	parts         = flag.Bool("parts", false, "number same-named albums as (part n)")
	avoidExisting = flag.Bool("avoid-existing", false, "never reuse a pre-existing destination folder name")
	hashAlgo      = flag.String("hash", "fast", "duplicate detection hash: fast, md5, sha1, sha256, or blake3")
	transfer      = flag.String("transfer", "copy", "transfer mode: copy, move, or link")
	workers       = flag.Int("workers", 0, "worker pool size (0 = all logical cores)")
	network       = flag.Bool("network", false, "destination is network-backed, halve parallelism")
	dryRun        = flag.Bool("n", false, "dry-run mode, don't place things")
	watchFlag     = flag.Bool("watch", false, "watch input directories and re-organize on changes")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}
	if len(flag.Args()) == 0 {
		klog.Exitf("no input directories given")
	}

	w := *workers
	if w == 0 {
		w = runtime.NumCPU()
	}
	if *network {
		// slow I/O paths saturate with a full pool
		w = (w + 1) / 2
	}

	c := &utflykt.Config{
		InDirs:              flag.Args(),
		OutDir:              *outDir,
		PlacesPath:          *placesDB,
		Precision:           *precision,
		TimeThresholdHours:  *timeGap,
		DistanceThresholdKM: *distGap,
		DateFormat:          *dateFormat,
		AppendDateFormat:    *appendDate,
		PrefixFormat:        *prefix,
		DateRange:           *dateRange,
		Parts:               *parts,
		AvoidExisting:       *avoidExisting,
		Simulate:            *dryRun,
		Hash:                deposit.Algorithm(*hashAlgo),
		Transfer:            deposit.Mode(*transfer),
		Workers:             w,
	}

	if err := c.Validate(); err != nil {
		klog.Exitf("invalid configuration: %v", err)
	}

	run(c)

	if *watchFlag {
		if err := watch(c); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

func run(c *utflykt.Config) {
	s, err := utflykt.Organize(c)
	if err != nil {
		klog.Exitf("organize failed: %v", err)
	}

	klog.Infof("placed %d files into %d albums: %d duplicates skipped, %d failures, %d soft links",
		s.Placed, s.Albums, s.Duplicates, s.Failures, s.SoftLinks)
}

// watch re-runs organization whenever an input directory changes.
func watch(c *utflykt.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := slices.Clone(c.InDirs)
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				klog.Infof("change detected: %s", event)
				run(c)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
