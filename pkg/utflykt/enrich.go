package utflykt

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/tstromberg/utflykt/pkg/geo"
)

// Enrich resolves a place name for every located record. Queries run on a
// bounded worker pool; the index is read-only so workers share it freely.
func Enrich(recs []*Record, x *geo.Index, workers int) {
	if x == nil {
		return
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *Record)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				p := x.FindNearest(*r.Coords)
				if p == nil {
					klog.V(1).Infof("no place near %v for %s", *r.Coords, r.Path)
					continue
				}
				r.Location = p.Name
			}
		}()
	}

	for _, r := range recs {
		if r.Located() {
			jobs <- r
		}
	}
	close(jobs)
	wg.Wait()
}
