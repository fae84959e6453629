package utflykt

import (
	"time"

	"github.com/tstromberg/utflykt/pkg/geo"
)

// Record represents one source photo or video.
type Record struct {
	Path  string
	Taken time.Time

	// Coords is nil when the file carries no usable GPS data. The scanner
	// maps the (0,0) tag sentinel to nil at the boundary so nothing
	// downstream mistakes "no data" for the Gulf of Guinea.
	Coords   *geo.Coord
	Location string

	AlbumID   int
	AlbumName string
	Part      int
}

// Located reports whether the record carries coordinates.
func (r *Record) Located() bool {
	return r.Coords != nil
}
