package utflykt

import (
	"github.com/tstromberg/utflykt/pkg/geo"
)

// Cluster assigns an album identifier to every record. Records must already
// be sorted by capture time; the first record gets album 1 and a new album
// starts whenever adjacent records sit at least timeHours apart, or at
// least distKM apart when both carry GPS. Either trigger can be disabled
// with a zero threshold. The result is a pure function of the sorted input
// and the thresholds.
func Cluster(recs []*Record, timeHours, distKM float64) {
	id := 1
	for i, r := range recs {
		if i > 0 && breakBetween(recs[i-1], r, timeHours, distKM) {
			id++
		}
		r.AlbumID = id
	}
}

func breakBetween(prev, curr *Record, timeHours, distKM float64) bool {
	if timeHours > 0 && curr.Taken.Sub(prev.Taken).Hours() >= timeHours {
		return true
	}
	// The distance check needs GPS on both sides; a record without
	// coordinates never splits an album by distance.
	if distKM > 0 && prev.Located() && curr.Located() &&
		geo.Distance(*prev.Coords, *curr.Coords) >= distKM {
		return true
	}
	return false
}
