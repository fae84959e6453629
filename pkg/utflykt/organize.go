package utflykt

import (
	"fmt"
	"sort"

	"k8s.io/klog/v2"

	"github.com/tstromberg/utflykt/pkg/deposit"
	"github.com/tstromberg/utflykt/pkg/geo"
)

// Summary aggregates the outcome of one organize run.
type Summary struct {
	Records     int
	Albums      int
	SkippedRows int
	deposit.Stats
}

// Organize runs the whole pipeline: scan, enrich, cluster, impute, name,
// place. The sequential stages (cluster, impute, name) run over the fully
// sorted record set; scanning enrichment and placement are parallel.
func Organize(c *Config) (*Summary, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var x *geo.Index
	if c.PlacesPath != "" {
		var err error
		x, err = geo.Load(c.PlacesPath, c.Precision)
		if err != nil {
			return nil, fmt.Errorf("load places: %w", err)
		}
	}

	recs, err := Find(c.InDirs)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	Enrich(recs, x, c.workers())

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Taken.Before(recs[j].Taken)
	})

	Cluster(recs, c.TimeThresholdHours, c.DistanceThresholdKM)

	if c.DistanceThresholdKM > 0 {
		n := Impute(recs, c.TimeThresholdHours)
		klog.Infof("imputed coordinates for %d records", n)
	}

	Name(recs, c, x != nil)

	albums := 0
	if len(recs) > 0 {
		albums = recs[len(recs)-1].AlbumID
	}
	klog.Infof("%d records clustered into %d albums", len(recs), albums)

	d := deposit.New(c.OutDir, deposit.Options{
		Mode:      c.Transfer,
		Algorithm: c.Hash,
		Simulate:  c.Simulate,
	})

	reqs := make([]deposit.Request, 0, len(recs))
	for _, r := range recs {
		reqs = append(reqs, deposit.Request{Source: r.Path, Album: r.AlbumName, Taken: r.Taken})
	}

	// No point placing files with nowhere to put them: a directory
	// creation failure aborts before any file moves.
	if err := d.Prepare(reqs); err != nil {
		return nil, fmt.Errorf("create album directories: %w", err)
	}

	stats := d.Run(reqs, c.workers())
	d.StampTimes()

	s := &Summary{
		Records: len(recs),
		Albums:  albums,
		Stats:   stats,
	}
	if x != nil {
		s.SkippedRows = x.Skipped
	}
	return s, nil
}
