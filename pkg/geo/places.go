package geo

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// GeoNames column positions.
const (
	colName       = 1
	colLat        = 4
	colLon        = 5
	colClass      = 6
	colCode       = 7
	colCountry    = 8
	colAdmin1     = 10
	colPopulation = 14

	minColumns = 16
)

// majorPlaces are capital and admin-seat populated places, indexed at every
// precision level.
var majorPlaces = map[string]bool{
	"PPLC":  true,
	"PPLA":  true,
	"PPLA2": true,
	"PPLA3": true,
	"PPLA4": true,
}

// leafAdmin are the smallest administrative units; they pass unconditionally.
var leafAdmin = map[string]bool{
	"ADM4": true,
	"ADM5": true,
}

var coarseAdmin = map[string]bool{
	"ADM2": true,
}

var broadAdmin = map[string]bool{
	"ADM2": true,
	"ADM3": true,
}

// spotCodes is the fixed allow-list of landmark-grade spot features indexed
// at precision level 3. Anything broader floods album names with
// insignificant points of interest.
var spotCodes = map[string]bool{
	"AMTH": true, "ANS": true, "ARCH": true, "BDG": true, "BTL": true,
	"CAVE": true, "CH": true, "CSTL": true, "FT": true, "GDN": true,
	"HSTS": true, "LTHSE": true, "MALL": true, "MAR": true, "MNMT": true,
	"MSQE": true, "MUS": true, "OBPT": true, "OPRA": true, "PAL": true,
	"PIER": true, "PYR": true, "RLG": true, "RSRT": true, "RUIN": true,
	"SQR": true, "STDM": true, "THTR": true, "TMPL": true, "ZOO": true,
}

// Load reads a GeoNames-format tab-delimited dataset and builds the place
// index. The precision level (1-3) controls how broad the indexed subset
// is: 1 keeps major towns and coarse admin regions, 2 keeps every populated
// place, 3 adds landmark spot features. Bad rows are skipped and counted,
// never fatal.
func Load(path string, precision int) (*Index, error) {
	if precision < 1 || precision > 3 {
		return nil, fmt.Errorf("precision %d out of range (1-3)", precision)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open places: %w", err)
	}
	defer f.Close()

	x := &Index{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < minColumns {
			x.Skipped++
			continue
		}

		if !relevant(cols[colClass], cols[colCode], precision) {
			continue
		}

		lat, latErr := strconv.ParseFloat(cols[colLat], 64)
		lon, lonErr := strconv.ParseFloat(cols[colLon], 64)
		if latErr != nil || lonErr != nil {
			klog.V(2).Infof("bad coordinates for %q: %q,%q", cols[colName], cols[colLat], cols[colLon])
			x.Skipped++
			continue
		}

		pop, _ := strconv.ParseInt(cols[colPopulation], 10, 64)
		p := &Place{
			Name:       cols[colName],
			Country:    cols[colCountry],
			Admin1:     cols[colAdmin1],
			Class:      cols[colClass],
			Code:       cols[colCode],
			Population: pop,
			Coord:      Coord{Lat: lat, Lon: lon},
		}
		x.tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, p)
		x.Count++
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read places: %w", err)
	}

	klog.Infof("place index: %d places at precision %d (%d rows skipped)", x.Count, precision, x.Skipped)
	return x, nil
}

func relevant(class, code string, precision int) bool {
	switch class {
	case "A":
		if leafAdmin[code] {
			return true
		}
		if precision >= 2 {
			return broadAdmin[code]
		}
		return coarseAdmin[code]
	case "P":
		if precision >= 2 {
			return true
		}
		return majorPlaces[code]
	case "S":
		return precision >= 3 && spotCodes[code]
	}
	return false
}
