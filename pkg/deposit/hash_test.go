package deposit

import (
	"testing"
)

func TestHashFileAlgorithms(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jpg", "the same content")
	b := writeFile(t, dir, "b.jpg", "the same content")
	c := writeFile(t, dir, "c.jpg", "something else entirely")

	for _, algo := range []Algorithm{Fast, MD5, SHA1, SHA256, Blake3} {
		ha, err := hashFile(a, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		hb, err := hashFile(b, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		hc, err := hashFile(c, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}

		if ha != hb {
			t.Errorf("%s: identical files hash differently: %s vs %s", algo, ha, hb)
		}
		if ha == hc {
			t.Errorf("%s: different files collide: %s", algo, ha)
		}
	}
}

func TestHashFileUnknownAlgorithm(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jpg", "x")

	if _, err := hashFile(a, "crc32"); err == nil {
		t.Error("hashFile with unknown algorithm succeeded, want error")
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jpg", "equal")
	b := writeFile(t, dir, "b.jpg", "equal")
	c := writeFile(t, dir, "c.jpg", "nope!")
	d := writeFile(t, dir, "d.jpg", "length differs")

	dep := New(t.TempDir(), Options{})

	same, err := dep.sameContent(a, b)
	if err != nil || !same {
		t.Errorf("sameContent(equal, equal) = %v, %v; want true", same, err)
	}

	same, err = dep.sameContent(a, c)
	if err != nil || same {
		t.Errorf("sameContent(equal, nope!) = %v, %v; want false", same, err)
	}

	// Size mismatch short-circuits before hashing.
	same, err = dep.sameContent(a, d)
	if err != nil || same {
		t.Errorf("sameContent with different sizes = %v, %v; want false", same, err)
	}
}
