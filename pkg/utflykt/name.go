package utflykt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const unknownLocation = "Unknown Location"

// maxNamedPlaces caps how many places an album name cites.
const maxNamedPlaces = 4

// Name assigns an album name to every record, one name per contiguous
// album-id run. Clusters with resolved locations are named after their
// most-visited places in journey order; everything else falls back to the
// cluster's date. haveResolver distinguishes "no place database configured"
// from "no place found".
func Name(recs []*Record, c *Config, haveResolver bool) {
	for _, run := range runs(recs) {
		cluster := recs[run.first:run.last]

		var name string
		if haveResolver && hasLocation(cluster) {
			name = locationName(cluster)
			if c.AppendDateFormat != "" {
				name = fmt.Sprintf("%s (%s)", name, cluster[0].Taken.Format(c.AppendDateFormat))
			}
		} else {
			name = dateName(cluster, c)
		}

		if c.PrefixFormat != "" {
			name = filepath.Join(cluster[0].Taken.Format(c.PrefixFormat), name)
		}

		if c.AvoidExisting {
			name = avoidExisting(c.OutDir, name)
		}

		for _, r := range cluster {
			r.AlbumName = name
		}
	}

	if c.Parts {
		numberParts(recs)
	}
}

type span struct {
	first, last int
}

// runs returns the half-open index ranges of contiguous album ids.
func runs(recs []*Record) []span {
	var out []span
	start := 0
	for i := 1; i <= len(recs); i++ {
		if i == len(recs) || recs[i].AlbumID != recs[start].AlbumID {
			out = append(out, span{start, i})
			start = i
		}
	}
	return out
}

func hasLocation(cluster []*Record) bool {
	for _, r := range cluster {
		if r.Location != "" {
			return true
		}
	}
	return false
}

// locationName reduces a cluster's places to a single human name: the up to
// four most frequent places, re-ordered by first appearance so the name
// reads in journey order.
func locationName(cluster []*Record) string {
	type visit struct {
		name  string
		count int
		first int
	}

	seen := map[string]*visit{}
	visits := []*visit{}
	for i, r := range cluster {
		if r.Location == "" {
			continue
		}
		v := seen[r.Location]
		if v == nil {
			v = &visit{name: r.Location, first: i}
			seen[r.Location] = v
			visits = append(visits, v)
		}
		v.count++
	}

	if len(visits) == 0 {
		return unknownLocation
	}

	// Stable sort keeps first-appearance order among equal counts.
	picked := append([]*visit{}, visits...)
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].count > picked[j].count })
	if len(picked) > maxNamedPlaces {
		picked = picked[:maxNamedPlaces]
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].first < picked[j].first })

	names := make([]string, 0, len(picked))
	for _, v := range picked {
		names = append(names, v.name)
	}
	return humanJoin(names)
}

// humanJoin renders "A", "A and B", or "A, B, and C".
func humanJoin(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

func dateName(cluster []*Record, c *Config) string {
	first := cluster[0].Taken
	last := cluster[len(cluster)-1].Taken

	name := first.Format(c.DateFormat)
	if c.DateRange && !sameDay(first, last) {
		name = name + " - " + last.Format(c.DateFormat)
	}
	return name
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// avoidExisting appends " (n)" until the name misses every pre-existing
// destination directory.
func avoidExisting(outDir, name string) string {
	candidate := name
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(outDir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)", name, n)
	}
}

// numberParts disambiguates different albums that landed on the same name,
// e.g. two separate trips to the same town. Parts count up while adjacent
// albums share a name and reset when the name changes; part 1 keeps the
// bare name.
func numberParts(recs []*Record) {
	part := 1
	for i, r := range recs {
		if i > 0 && r.AlbumID != recs[i-1].AlbumID {
			if r.AlbumName == recs[i-1].AlbumName {
				part++
			} else {
				part = 1
			}
		}
		r.Part = part
	}

	for _, r := range recs {
		if r.Part >= 2 {
			r.AlbumName = fmt.Sprintf("%s (part %d)", r.AlbumName, r.Part)
		}
	}
}
