package deposit

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm selects the content hash used for duplicate detection.
type Algorithm string

const (
	// Fast checksums only the leading chunk of the file. Cheap and good
	// enough once sizes already match; not collision-proof.
	Fast   Algorithm = "fast"
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	Blake3 Algorithm = "blake3"
)

// fastHashLimit is how much of the file the fast checksum reads.
const fastHashLimit = 1 << 20

// ParseAlgorithm validates a hash algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case Fast, MD5, SHA1, SHA256, Blake3:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown hash algorithm %q (want fast, md5, sha1, sha256, or blake3)", s)
}

func hashFile(path string, algo Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if algo == Fast {
		h := xxhash.New()
		if _, err := io.Copy(h, io.LimitReader(f, fastHashLimit)); err != nil {
			return "", fmt.Errorf("hash: %w", err)
		}
		return strconv.FormatUint(h.Sum64(), 16), nil
	}

	var h hash.Hash
	switch algo {
	case MD5:
		h = md5.New()
	case SHA1:
		h = sha1.New()
	case SHA256:
		h = sha256.New()
	case Blake3:
		h = blake3.New()
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", algo)
	}

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// sameContent compares two files by size first, then by content hash.
func (d *Depositor) sameContent(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", a, err)
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}
	if sa.Size() != sb.Size() {
		return false, nil
	}

	ha, err := hashFile(a, d.algo)
	if err != nil {
		return false, err
	}
	hb, err := hashFile(b, d.algo)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
