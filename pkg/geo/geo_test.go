package geo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// row builds a 19-column GeoNames line.
func row(name string, lat, lon float64, class, code string) string {
	cols := make([]string, 19)
	cols[0] = "1"
	cols[colName] = name
	cols[colLat] = fmt.Sprintf("%f", lat)
	cols[colLon] = fmt.Sprintf("%f", lon)
	cols[colClass] = class
	cols[colCode] = code
	cols[colCountry] = "SE"
	cols[colAdmin1] = "28"
	cols[colPopulation] = "1000"
	return strings.Join(cols, "\t")
}

func writePlaces(t *testing.T, lines ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "places.txt")
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write places: %v", err)
	}
	return p
}

func TestDistance(t *testing.T) {
	paris := Coord{Lat: 48.8566, Lon: 2.3522}
	london := Coord{Lat: 51.5074, Lon: -0.1278}

	got := Distance(paris, london)
	if math.Abs(got-343.5) > 2 {
		t.Errorf("Distance(paris, london) = %.1f km, want ~343.5", got)
	}

	if d := Distance(paris, paris); d != 0 {
		t.Errorf("Distance(paris, paris) = %f, want 0", d)
	}
}

func TestLoadSkipsBadRows(t *testing.T) {
	p := writePlaces(t,
		"# comment",
		"",
		row("Malmo", 55.6059, 13.0007, "P", "PPLA"),
		"short\trow",
		row("Nowhere", 0, 0, "P", "PPLC")+"\txx", // still parses, extra col is fine
		strings.Replace(row("BadLat", 1, 1, "P", "PPLA"), "1.000000", "not-a-number", 1),
	)

	x, err := Load(p, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if x.Count != 2 {
		t.Errorf("Count = %d, want 2", x.Count)
	}
	if x.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", x.Skipped)
	}
}

func TestLoadBadPrecision(t *testing.T) {
	if _, err := Load("irrelevant", 4); err == nil {
		t.Fatal("Load with precision 4 succeeded, want error")
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		class, code string
		precision   int
		want        bool
	}{
		{"P", "PPLA", 1, true},
		{"P", "PPL", 1, false},
		{"P", "PPL", 2, true},
		{"A", "ADM2", 1, true},
		{"A", "ADM3", 1, false},
		{"A", "ADM3", 2, true},
		{"A", "ADM4", 1, true},
		{"A", "ADM5", 3, true},
		{"A", "ADM1", 3, false},
		{"S", "CSTL", 2, false},
		{"S", "CSTL", 3, true},
		{"S", "FRM", 3, false},
		{"H", "LK", 3, false},
	}
	for _, tc := range tests {
		if got := relevant(tc.class, tc.code, tc.precision); got != tc.want {
			t.Errorf("relevant(%q, %q, %d) = %v, want %v", tc.class, tc.code, tc.precision, got, tc.want)
		}
	}
}

func TestFindNearestPrefersTownOverAdmin(t *testing.T) {
	// The admin region is closer, but the first pass skips class A.
	p := writePlaces(t,
		row("Skurup kommun", 55.480, 13.500, "A", "ADM2"),
		row("Skurup", 55.474, 13.502, "P", "PPLA4"),
	)
	x, err := Load(p, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := x.FindNearest(Coord{Lat: 55.479, Lon: 13.500})
	if got == nil || got.Name != "Skurup" {
		t.Fatalf("FindNearest = %+v, want Skurup", got)
	}
}

func TestFindNearestFallbackAcceptsAdmin(t *testing.T) {
	// Nothing within the 0.01 degree envelope, but an admin region sits
	// inside the 0.05 degree fallback where class A is no longer excluded.
	p := writePlaces(t,
		row("Skurup kommun", 55.500, 13.500, "A", "ADM2"),
	)
	x, err := Load(p, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := x.FindNearest(Coord{Lat: 55.530, Lon: 13.500})
	if got == nil || got.Name != "Skurup kommun" {
		t.Fatalf("FindNearest = %+v, want Skurup kommun via fallback", got)
	}
}

func TestFindNearestNoResult(t *testing.T) {
	p := writePlaces(t,
		row("Malmo", 55.6059, 13.0007, "P", "PPLA"),
	)
	x, err := Load(p, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := x.FindNearest(Coord{Lat: -33.86, Lon: 151.20}); got != nil {
		t.Fatalf("FindNearest on far coordinate = %+v, want nil", got)
	}
}

func TestFindNearestPicksClosest(t *testing.T) {
	p := writePlaces(t,
		row("Near", 55.600, 13.000, "P", "PPLA"),
		row("Nearer", 55.602, 13.000, "P", "PPLA"),
		row("Nearest", 55.6035, 13.000, "P", "PPLA"),
	)
	x, err := Load(p, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := x.FindNearest(Coord{Lat: 55.604, Lon: 13.000})
	if got == nil || got.Name != "Nearest" {
		t.Fatalf("FindNearest = %+v, want Nearest", got)
	}
}
