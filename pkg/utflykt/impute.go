package utflykt

import (
	"time"
)

// Impute copies coordinates onto records without GPS from the temporally
// nearest located record within timeHours on either side, so albums do not
// end up half-named because one camera lacks a GPS chip. The donated
// location name comes along with the coordinates rather than being
// resolved again. Records with no anchor inside the window stay unlocated.
// Records must be sorted by capture time. Returns the number of records
// imputed.
func Impute(recs []*Record, timeHours float64) int {
	window := time.Duration(timeHours * float64(time.Hour))
	n := 0

	for i, r := range recs {
		if r.Located() {
			continue
		}

		prev := anchorBefore(recs, i, window)
		next := anchorAfter(recs, i, window)

		a := prev
		if a == nil {
			a = next
		} else if next != nil {
			// Both sides qualify: smaller gap wins, ties keep the
			// previous anchor.
			if r.Taken.Sub(prev.Taken) > next.Taken.Sub(r.Taken) {
				a = next
			}
		}
		if a == nil {
			continue
		}

		c := *a.Coords
		r.Coords = &c
		r.Location = a.Location
		n++
	}

	return n
}

func anchorBefore(recs []*Record, i int, window time.Duration) *Record {
	for j := i - 1; j >= 0; j-- {
		if recs[i].Taken.Sub(recs[j].Taken) > window {
			return nil
		}
		if recs[j].Located() {
			return recs[j]
		}
	}
	return nil
}

func anchorAfter(recs []*Record, i int, window time.Duration) *Record {
	for j := i + 1; j < len(recs); j++ {
		if recs[j].Taken.Sub(recs[i].Taken) > window {
			return nil
		}
		if recs[j].Located() {
			return recs[j]
		}
	}
	return nil
}
