// nearplace resolves lat,lon arguments against a place database. Handy for
// checking what a given precision level will call a spot on the map.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/tstromberg/utflykt/pkg/geo"
)

var (
	placesDB  = flag.String("places", "", "GeoNames-format place database")
	precision = flag.Int("precision", 1, "place precision level: 1=cities, 2=towns, 3=landmarks")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *placesDB == "" {
		klog.Exitf("--places is a required flag")
	}
	if len(flag.Args()) == 0 {
		klog.Exitf("no coordinates given, expected lat,lon arguments")
	}

	x, err := geo.Load(*placesDB, *precision)
	if err != nil {
		klog.Exitf("load failed: %v", err)
	}

	for _, arg := range flag.Args() {
		c, err := parseCoord(arg)
		if err != nil {
			klog.Exitf("bad coordinate %q: %v", arg, err)
		}

		p := x.FindNearest(c)
		if p == nil {
			fmt.Printf("%s: no place found\n", arg)
			continue
		}
		fmt.Printf("%s: %s, %s (%s/%s, %.2f km away)\n",
			arg, p.Name, p.Country, p.Class, p.Code, geo.Distance(c, p.Coord))
	}
}

func parseCoord(s string) (geo.Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coord{}, fmt.Errorf("want lat,lon")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	return geo.Coord{Lat: lat, Lon: lon}, nil
}
