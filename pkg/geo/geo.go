// Package geo answers "what named place is nearest to this coordinate?"
// using an in-memory bounding-box tree built from a GeoNames-format dataset.
package geo

import (
	"math"

	"github.com/tidwall/rtree"
)

const earthRadiusKM = 6371.0

// Envelope half-widths in degrees for the two query passes. The narrow pass
// skips administrative regions so a town or landmark wins over a region
// centroid at a similar distance; the wide pass accepts anything.
const (
	nearHalfWidth = 0.01
	farHalfWidth  = 0.05
)

// Coord is a WGS84 coordinate pair in decimal degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Place is one named entry from the reference dataset. Places are immutable
// after load and owned by the Index.
type Place struct {
	Name       string
	Country    string
	Admin1     string
	Class      string
	Code       string
	Population int64
	Coord      Coord
}

// Index is a bounding-box tree over places. It is built once by Load and
// never mutated afterwards, so concurrent queries need no locking.
type Index struct {
	tr      rtree.RTreeG[*Place]
	Count   int
	Skipped int
}

// FindNearest returns the closest indexed place to c, or nil when nothing
// lies within the fallback radius. A nil result is not an error; callers
// treat it as "unknown location".
func (x *Index) FindNearest(c Coord) *Place {
	if p := x.nearest(c, nearHalfWidth, true); p != nil {
		return p
	}
	return x.nearest(c, farHalfWidth, false)
}

func (x *Index) nearest(c Coord, halfWidth float64, skipAdmin bool) *Place {
	var best *Place
	bestKM := math.MaxFloat64

	min := [2]float64{c.Lon - halfWidth, c.Lat - halfWidth}
	max := [2]float64{c.Lon + halfWidth, c.Lat + halfWidth}
	x.tr.Search(min, max, func(_, _ [2]float64, p *Place) bool {
		if skipAdmin && p.Class == "A" {
			return true
		}
		if km := Distance(c, p.Coord); km < bestKM {
			best, bestKM = p, km
		}
		return true
	})

	return best
}

// Distance returns the great-circle distance between two coordinates in
// kilometers, on a sphere of Earth's mean radius.
func Distance(a, b Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
