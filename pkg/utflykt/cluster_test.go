package utflykt

import (
	"fmt"
	"testing"
	"time"

	"github.com/tstromberg/utflykt/pkg/geo"
)

var t0 = time.Date(2023, 7, 14, 9, 0, 0, 0, time.UTC)

func rec(offset time.Duration, c *geo.Coord) *Record {
	return &Record{
		Path:   fmt.Sprintf("/in/%d.jpg", offset/time.Minute),
		Taken:  t0.Add(offset),
		Coords: c,
	}
}

func albumIDs(recs []*Record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.AlbumID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClusterTimeBreaks(t *testing.T) {
	malmo := &geo.Coord{Lat: 55.6059, Lon: 13.0007}
	lund := &geo.Coord{Lat: 55.7047, Lon: 13.1910}
	ystad := &geo.Coord{Lat: 55.4295, Lon: 13.82}

	tests := []struct {
		name      string
		recs      []*Record
		timeHours float64
		distKM    float64
		want      []int
	}{
		{
			name:      "end to end gap",
			recs:      []*Record{rec(0, nil), rec(time.Hour, nil), rec(50 * time.Hour, nil)},
			timeHours: 48,
			want:      []int{1, 1, 2},
		},
		{
			name:      "gap exactly at threshold breaks",
			recs:      []*Record{rec(0, nil), rec(48 * time.Hour, nil)},
			timeHours: 48,
			want:      []int{1, 2},
		},
		{
			name:      "gap just below threshold holds",
			recs:      []*Record{rec(0, nil), rec(48*time.Hour - time.Second, nil)},
			timeHours: 48,
			want:      []int{1, 1},
		},
		{
			name:      "time disabled",
			recs:      []*Record{rec(0, malmo), rec(500 * time.Hour, malmo)},
			timeHours: 0,
			distKM:    10,
			want:      []int{1, 1},
		},
		{
			name:      "distance break",
			recs:      []*Record{rec(0, malmo), rec(time.Hour, ystad)},
			timeHours: 48,
			distKM:    10,
			want:      []int{1, 2},
		},
		{
			name:      "distance below threshold holds",
			recs:      []*Record{rec(0, malmo), rec(time.Hour, lund)},
			timeHours: 48,
			distKM:    30,
			want:      []int{1, 1},
		},
		{
			name:      "missing GPS never breaks by distance",
			recs:      []*Record{rec(0, malmo), rec(time.Hour, nil), rec(2*time.Hour, ystad)},
			timeHours: 48,
			distKM:    1,
			want:      []int{1, 1, 1},
		},
		{
			name: "empty",
			recs: nil,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			Cluster(tc.recs, tc.timeHours, tc.distKM)
			if got := albumIDs(tc.recs); !equalInts(got, tc.want) {
				t.Errorf("album ids = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClusterDeterministic(t *testing.T) {
	build := func() []*Record {
		return []*Record{
			rec(0, &geo.Coord{Lat: 55.6, Lon: 13.0}),
			rec(3*time.Hour, nil),
			rec(60*time.Hour, &geo.Coord{Lat: 59.3, Lon: 18.1}),
			rec(61*time.Hour, &geo.Coord{Lat: 59.3, Lon: 18.1}),
		}
	}

	a := build()
	b := build()
	Cluster(a, 48, 100)
	Cluster(b, 48, 100)

	if !equalInts(albumIDs(a), albumIDs(b)) {
		t.Errorf("two runs disagreed: %v vs %v", albumIDs(a), albumIDs(b))
	}
}

func TestClusterIDsContiguous(t *testing.T) {
	recs := []*Record{
		rec(0, nil),
		rec(49*time.Hour, nil),
		rec(50*time.Hour, nil),
		rec(100*time.Hour, nil),
	}
	Cluster(recs, 48, 0)

	want := []int{1, 2, 2, 3}
	if got := albumIDs(recs); !equalInts(got, want) {
		t.Errorf("album ids = %v, want %v", got, want)
	}
}
